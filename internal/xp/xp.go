// Package xp implements the exponential level curve shared by per-agent and
// team progression.
package xp

import (
	"errors"
	"math"
)

const (
	// DefaultBase is the experience needed to go from level 1 to level 2.
	DefaultBase = 100.0
	// DefaultRate is the growth factor applied per level.
	DefaultRate = 1.2
)

// ErrInvalidCurve is returned when a curve would never let anyone level up,
// or would level up forever.
var ErrInvalidCurve = errors.New("invalid xp curve")

// Curve computes level thresholds as floor(Base * Rate^(level-1)).
type Curve struct {
	Base float64
	Rate float64
}

// DefaultCurve returns the standard curve.
func DefaultCurve() Curve {
	return Curve{Base: DefaultBase, Rate: DefaultRate}
}

// Validate reports whether every threshold is at least 1 and non-decreasing.
func (c Curve) Validate() error {
	if c.Base < 1 || math.IsNaN(c.Base) || math.IsInf(c.Base, 0) {
		return ErrInvalidCurve
	}
	if c.Rate < 1 || math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		return ErrInvalidCurve
	}
	return nil
}

// Threshold returns the experience required to leave the given level.
func (c Curve) Threshold(level int) int {
	if level < 1 {
		level = 1
	}
	// epsilon absorbs float noise: level 3 on the default curve is 144, not
	// the 143 a bare floor of 100*1.2^2 = 143.99999... would give.
	t := int(math.Floor(c.Base*math.Pow(c.Rate, float64(level-1)) + 1e-9))
	if t < 1 {
		return 1
	}
	return t
}

// Apply adds amount to the carried experience and resolves level-ups.
// Reaching a threshold exactly counts as a level-up. It returns the remaining
// experience, the new level and how many levels were gained.
func (c Curve) Apply(current, level, amount int) (remaining, newLevel, gained int) {
	if level < 1 {
		level = 1
	}
	remaining = current + amount
	newLevel = level
	for {
		need := c.Threshold(newLevel)
		if remaining < need {
			break
		}
		remaining -= need
		newLevel++
	}
	return remaining, newLevel, newLevel - level
}

// Total returns the experience needed to climb from level `from` to level `to`.
func (c Curve) Total(from, to int) int {
	sum := 0
	for l := from; l < to; l++ {
		sum += c.Threshold(l)
	}
	return sum
}
