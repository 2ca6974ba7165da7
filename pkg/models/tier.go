package models

import (
	"fmt"
	"strings"
)

// Tier is a rank in the office hierarchy.
type Tier string

const (
	// TierBoss is the single most senior tier. It plans and orchestrates.
	TierBoss Tier = "boss"
	// TierSupervisor sits under the boss and owns research and review work.
	TierSupervisor Tier = "supervisor"
	// TierEmployee does the bulk of implementation work.
	TierEmployee Tier = "employee"
	// TierIntern is the least senior tier and handles chores.
	TierIntern Tier = "intern"
)

// tierOrder lists tiers from most to least senior.
var tierOrder = [...]Tier{TierBoss, TierSupervisor, TierEmployee, TierIntern}

// AllTiers returns every tier ordered from most to least senior.
func AllTiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder[:])
	return out
}

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierBoss, TierSupervisor, TierEmployee, TierIntern:
		return true
	default:
		return false
	}
}

// Rank returns the seniority index of the tier, 0 being the most senior.
// Unknown tiers rank -1.
func (t Tier) Rank() int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// Label returns the display label of the tier.
func (t Tier) Label() string {
	return strings.ToUpper(string(t))
}

// SeniorTo reports whether t strictly outranks other.
func (t Tier) SeniorTo(other Tier) bool {
	return t.Valid() && other.Valid() && t.Rank() < other.Rank()
}

// Above returns the next more senior tier.
// The second result is false for the boss tier.
func (t Tier) Above() (Tier, bool) {
	r := t.Rank()
	if r <= 0 {
		return "", false
	}
	return tierOrder[r-1], true
}

// Below returns the next less senior tier.
// The second result is false for the intern tier.
func (t Tier) Below() (Tier, bool) {
	r := t.Rank()
	if r < 0 || r == len(tierOrder)-1 {
		return "", false
	}
	return tierOrder[r+1], true
}

// ParseTier converts user input into a Tier. It accepts tier names in any
// case and the numeric ranks 0-3.
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		idx := int(s[0] - '0')
		if idx < len(tierOrder) {
			return tierOrder[idx], nil
		}
	}
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}
