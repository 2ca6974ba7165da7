package models

import (
	"fmt"
	"strings"
	"time"
)

// ModifierID identifies one of the predefined modifiers.
type ModifierID string

const (
	// ModifierTurbo speeds up the office clock.
	ModifierTurbo ModifierID = "turbo"
	// ModifierSwarm floods the office with interns and lifts population limits.
	ModifierSwarm ModifierID = "swarm"
	// ModifierTimeWarp accelerates the clock while slowing hiring.
	ModifierTimeWarp ModifierID = "timewarp"
	// ModifierGodMode removes every limit and promotes agents as they level.
	ModifierGodMode ModifierID = "godmode"
	// ModifierStealth turns off telemetry and damps effects.
	ModifierStealth ModifierID = "stealth"
	// ModifierZen slows everything down and stops hiring.
	ModifierZen ModifierID = "zen"
)

var allModifierIDs = [...]ModifierID{
	ModifierTurbo, ModifierSwarm, ModifierTimeWarp,
	ModifierGodMode, ModifierStealth, ModifierZen,
}

// AllModifierIDs returns every modifier id in definition order.
func AllModifierIDs() []ModifierID {
	out := make([]ModifierID, len(allModifierIDs))
	copy(out, allModifierIDs[:])
	return out
}

// Valid returns true if the id is a known value.
func (id ModifierID) Valid() bool {
	for _, known := range allModifierIDs {
		if id == known {
			return true
		}
	}
	return false
}

// ParseModifierID converts user input into a ModifierID.
func ParseModifierID(s string) (ModifierID, error) {
	id := ModifierID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("unknown modifier %q", s)
	}
	return id, nil
}

// Effects is the bundle of adjustments a modifier applies while active.
// Nil multipliers leave the corresponding value untouched.
type Effects struct {
	SpeedMultiplier     *float64 `json:"speed_multiplier,omitempty" yaml:"speed_multiplier,omitempty"`
	SpawnRateMultiplier *float64 `json:"spawn_rate_multiplier,omitempty" yaml:"spawn_rate_multiplier,omitempty"`
	CapacityMultiplier  *float64 `json:"capacity_multiplier,omitempty" yaml:"capacity_multiplier,omitempty"`
	// CapacityTiers limits CapacityMultiplier to the listed tiers.
	// Empty means every tier.
	CapacityTiers      []Tier   `json:"capacity_tiers,omitempty" yaml:"capacity_tiers,omitempty"`
	ParticleIntensity  *float64 `json:"particle_intensity,omitempty" yaml:"particle_intensity,omitempty"`
	BypassCapacity     bool     `json:"bypass_capacity,omitempty" yaml:"bypass_capacity,omitempty"`
	AutoPromote        bool     `json:"auto_promote,omitempty" yaml:"auto_promote,omitempty"`
	DisableTelemetry   bool     `json:"disable_telemetry,omitempty" yaml:"disable_telemetry,omitempty"`
}

// Factor returns a pointer to v, for populating Effects literals.
func Factor(v float64) *float64 {
	return &v
}

// AppliesToTier reports whether the capacity multiplier covers the tier.
func (e Effects) AppliesToTier(t Tier) bool {
	if len(e.CapacityTiers) == 0 {
		return true
	}
	for _, ct := range e.CapacityTiers {
		if ct == t {
			return true
		}
	}
	return false
}

func (e Effects) clone() Effects {
	c := e
	c.SpeedMultiplier = cloneFactor(e.SpeedMultiplier)
	c.SpawnRateMultiplier = cloneFactor(e.SpawnRateMultiplier)
	c.CapacityMultiplier = cloneFactor(e.CapacityMultiplier)
	c.ParticleIntensity = cloneFactor(e.ParticleIntensity)
	c.CapacityTiers = append([]Tier(nil), e.CapacityTiers...)
	return c
}

func cloneFactor(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Modifier is a toggleable effect bundle.
type Modifier struct {
	ID          ModifierID `json:"id" yaml:"id"`
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description" yaml:"description"`
	// Trigger is the primary cheat code that activates the modifier.
	Trigger string `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	// Duration is how long one activation lasts. Zero means permanent.
	Duration time.Duration `json:"duration" yaml:"duration"`
	Effects  Effects       `json:"effects" yaml:"effects"`

	Active bool `json:"active" yaml:"active"`
	// ExpiresAt is nil for inactive and permanent modifiers.
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Permanent reports whether an activation never expires on its own.
func (m Modifier) Permanent() bool {
	return m.Duration <= 0
}

// Clone returns a deep copy of the modifier.
func (m *Modifier) Clone() Modifier {
	c := *m
	c.Effects = m.Effects.clone()
	if m.ExpiresAt != nil {
		t := *m.ExpiresAt
		c.ExpiresAt = &t
	}
	return c
}

// SpecialEvent is a one-shot cheat outcome that is not a modifier.
type SpecialEvent string

const (
	SpecialConfetti   SpecialEvent = "confetti"
	SpecialCoffee     SpecialEvent = "coffee"
	SpecialHireIntern SpecialEvent = "hire_intern"
)

// Valid returns true if the event is a known value.
func (e SpecialEvent) Valid() bool {
	switch e {
	case SpecialConfetti, SpecialCoffee, SpecialHireIntern:
		return true
	default:
		return false
	}
}
