// Package modifier holds the closed set of office modifiers and folds the
// active ones into the effective multipliers and flags other components
// consult.
package modifier

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// ErrUnknownModifier is returned when a definition, duration override or
// cheat code names a modifier outside the closed set.
var ErrUnknownModifier = errors.New("unknown modifier")

// Outcome reports what Activate did.
type Outcome int

const (
	// OutcomeUnknown means the id is not registered; nothing changed.
	OutcomeUnknown Outcome = iota
	// OutcomeActivated means the modifier went from inactive to active.
	OutcomeActivated
	// OutcomeExtended means the modifier was already active and its expiry
	// was pushed out by one nominal duration.
	OutcomeExtended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeActivated:
		return "activated"
	case OutcomeExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// Registry owns modifier state. It is not safe for concurrent use.
type Registry struct {
	order []models.ModifierID
	mods  map[models.ModifierID]*models.Modifier
	// everActivated records ids that have been active at least once.
	everActivated map[models.ModifierID]struct{}

	cheats     []CheatCode
	buffer     []rune
	bufferSize int

	now    func() time.Time
	logger *zap.Logger
	bus    *events.Bus
}

// NewRegistry creates a registry from modifier definitions. Definitions are
// copied and forced inactive.
func NewRegistry(defs []models.Modifier, opts ...Option) (*Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize < 1 {
		return nil, fmt.Errorf("cheat buffer size must be positive, got %d", o.bufferSize)
	}

	r := &Registry{
		mods:          make(map[models.ModifierID]*models.Modifier, len(defs)),
		everActivated: make(map[models.ModifierID]struct{}),
		bufferSize:    o.bufferSize,
		now:           o.clock,
		logger:        o.logger,
		bus:           o.bus,
	}

	for i := range defs {
		def := defs[i].Clone()
		if !def.ID.Valid() {
			return nil, fmt.Errorf("definition %q: %w", def.ID, ErrUnknownModifier)
		}
		if _, dup := r.mods[def.ID]; dup {
			return nil, fmt.Errorf("duplicate definition for modifier %q", def.ID)
		}
		def.Active = false
		def.ExpiresAt = nil
		r.order = append(r.order, def.ID)
		r.mods[def.ID] = &def
	}

	for id, d := range o.durations {
		m, ok := r.mods[id]
		if !ok {
			return nil, fmt.Errorf("duration for %q: %w", id, ErrUnknownModifier)
		}
		if d < 0 {
			return nil, fmt.Errorf("duration for %s must not be negative, got %s", id, d)
		}
		m.Duration = d
	}

	for _, c := range o.cheats {
		// The stock table only binds the modifiers this registry defines.
		if _, ok := r.mods[c.Modifier]; !o.customCheats && c.Modifier != "" && !ok {
			continue
		}
		if err := r.validateCheat(c); err != nil {
			return nil, err
		}
		r.cheats = append(r.cheats, c.normalized())
	}

	return r, nil
}

// Default returns a registry with the stock definitions and cheat table.
func Default(opts ...Option) *Registry {
	r, err := NewRegistry(Defaults(), opts...)
	if err != nil {
		panic(fmt.Sprintf("modifier: stock definitions rejected: %v", err))
	}
	return r
}

// Activate turns a modifier on. Activating an active modifier extends its
// expiry instead; only the inactive to active transition is announced.
func (r *Registry) Activate(id models.ModifierID) Outcome {
	m, ok := r.mods[id]
	if !ok {
		r.logger.Debug("activate: unknown modifier", zap.String("modifier", string(id)))
		return OutcomeUnknown
	}

	if m.Active {
		if m.ExpiresAt != nil {
			extended := m.ExpiresAt.Add(m.Duration)
			m.ExpiresAt = &extended
		}
		r.logger.Debug("modifier extended",
			zap.String("modifier", string(id)),
			zap.Duration("remaining", r.TimeRemaining(id)))
		return OutcomeExtended
	}

	now := r.now()
	m.Active = true
	if !m.Permanent() {
		expires := now.Add(m.Duration)
		m.ExpiresAt = &expires
	}
	r.everActivated[id] = struct{}{}

	r.logger.Info("modifier activated",
		zap.String("modifier", string(id)),
		zap.Bool("permanent", m.Permanent()))
	r.publish(events.KindModifierActivated, m, now)
	return OutcomeActivated
}

// Deactivate turns a modifier off. It returns false when the modifier is
// unknown or already inactive.
func (r *Registry) Deactivate(id models.ModifierID) bool {
	m, ok := r.mods[id]
	if !ok || !m.Active {
		return false
	}
	r.deactivate(m, r.now())
	return true
}

func (r *Registry) deactivate(m *models.Modifier, now time.Time) {
	m.Active = false
	m.ExpiresAt = nil
	r.logger.Info("modifier deactivated", zap.String("modifier", string(m.ID)))
	r.publish(events.KindModifierDeactivated, m, now)
}

// Tick deactivates every time-limited modifier whose expiry is at or before
// now, in definition order, and returns their ids.
func (r *Registry) Tick(now time.Time) []models.ModifierID {
	var expired []models.ModifierID
	for _, id := range r.order {
		m := r.mods[id]
		if !m.Active || m.ExpiresAt == nil {
			continue
		}
		if !m.ExpiresAt.After(now) {
			r.deactivate(m, now)
			expired = append(expired, id)
		}
	}
	return expired
}

// Reset deactivates everything and forgets activation history and buffered
// cheat input.
func (r *Registry) Reset() {
	now := r.now()
	for _, id := range r.order {
		if m := r.mods[id]; m.Active {
			r.deactivate(m, now)
		}
	}
	r.everActivated = make(map[models.ModifierID]struct{})
	r.buffer = r.buffer[:0]
}

func (r *Registry) publish(kind events.Kind, m *models.Modifier, now time.Time) {
	snap := m.Clone()
	r.bus.Publish(events.Event{Kind: kind, Timestamp: now, Modifier: &snap})
}

// fold multiplies the factor selected by pick over every active modifier.
func (r *Registry) fold(pick func(models.Effects) *float64) float64 {
	product := 1.0
	for _, id := range r.order {
		m := r.mods[id]
		if !m.Active {
			continue
		}
		if f := pick(m.Effects); f != nil {
			product *= *f
		}
	}
	return product
}

func (r *Registry) anyActive(pick func(models.Effects) bool) bool {
	for _, id := range r.order {
		if m := r.mods[id]; m.Active && pick(m.Effects) {
			return true
		}
	}
	return false
}

// EffectiveSpeedMultiplier returns the product of active speed multipliers.
func (r *Registry) EffectiveSpeedMultiplier() float64 {
	return r.fold(func(e models.Effects) *float64 { return e.SpeedMultiplier })
}

// EffectiveSpawnRateMultiplier returns the product of active spawn-rate
// multipliers.
func (r *Registry) EffectiveSpawnRateMultiplier() float64 {
	return r.fold(func(e models.Effects) *float64 { return e.SpawnRateMultiplier })
}

// EffectiveParticleIntensity returns the product of active particle
// intensities.
func (r *Registry) EffectiveParticleIntensity() float64 {
	return r.fold(func(e models.Effects) *float64 { return e.ParticleIntensity })
}

// EffectiveCapacityMultiplier returns the product of active capacity
// multipliers that cover the tier, or +Inf while capacity is bypassed.
func (r *Registry) EffectiveCapacityMultiplier(tier models.Tier) float64 {
	if r.CanBypassCapacity() {
		return math.Inf(1)
	}
	return r.fold(func(e models.Effects) *float64 {
		if !e.AppliesToTier(tier) {
			return nil
		}
		return e.CapacityMultiplier
	})
}

// CanBypassCapacity reports whether any active modifier lifts tier limits.
func (r *Registry) CanBypassCapacity() bool {
	return r.anyActive(func(e models.Effects) bool { return e.BypassCapacity })
}

// IsAutoPromoteEnabled reports whether any active modifier promotes agents
// as they level.
func (r *Registry) IsAutoPromoteEnabled() bool {
	return r.anyActive(func(e models.Effects) bool { return e.AutoPromote })
}

// IsTelemetryEnabled is false while any active modifier disables telemetry.
func (r *Registry) IsTelemetryEnabled() bool {
	return !r.anyActive(func(e models.Effects) bool { return e.DisableTelemetry })
}

// IsActive reports whether the modifier is on.
func (r *Registry) IsActive(id models.ModifierID) bool {
	m, ok := r.mods[id]
	return ok && m.Active
}

// TimeRemaining returns how long the modifier stays active. It is zero for
// inactive and permanent modifiers.
func (r *Registry) TimeRemaining(id models.ModifierID) time.Duration {
	m, ok := r.mods[id]
	if !ok || !m.Active || m.ExpiresAt == nil {
		return 0
	}
	if d := m.ExpiresAt.Sub(r.now()); d > 0 {
		return d
	}
	return 0
}

// Get returns a copy of the modifier.
func (r *Registry) Get(id models.ModifierID) (models.Modifier, bool) {
	m, ok := r.mods[id]
	if !ok {
		return models.Modifier{}, false
	}
	return m.Clone(), true
}

// Active returns copies of the active modifiers in definition order.
func (r *Registry) Active() []models.Modifier {
	var out []models.Modifier
	for _, id := range r.order {
		if m := r.mods[id]; m.Active {
			out = append(out, m.Clone())
		}
	}
	return out
}

// All returns copies of every modifier in definition order.
func (r *Registry) All() []models.Modifier {
	out := make([]models.Modifier, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.mods[id].Clone())
	}
	return out
}

// UniqueActivated returns how many distinct modifiers have ever been active.
func (r *Registry) UniqueActivated() int {
	return len(r.everActivated)
}
