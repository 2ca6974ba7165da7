package modifier

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

type recorder struct{ events []events.Event }

func (r *recorder) kinds() []events.Kind {
	out := make([]events.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) count(k events.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func newTestRegistry(t *testing.T, defs []models.Modifier, opts ...Option) (*Registry, *fakeClock, *recorder) {
	t.Helper()
	clock := newClock()
	bus := events.NewBus()
	rec := &recorder{}
	bus.SubscribeAll(func(e events.Event) { rec.events = append(rec.events, e) })
	opts = append([]Option{WithClock(clock.Now), WithBus(bus)}, opts...)
	r, err := NewRegistry(defs, opts...)
	require.NoError(t, err)
	return r, clock, rec
}

func TestRegistry_IdentityWhenNothingActive(t *testing.T) {
	r, _, _ := newTestRegistry(t, Defaults())

	assert.Equal(t, 1.0, r.EffectiveSpeedMultiplier())
	assert.Equal(t, 1.0, r.EffectiveSpawnRateMultiplier())
	assert.Equal(t, 1.0, r.EffectiveParticleIntensity())
	assert.Equal(t, 1.0, r.EffectiveCapacityMultiplier(models.TierBoss))
	assert.False(t, r.CanBypassCapacity())
	assert.False(t, r.IsAutoPromoteEnabled())
	assert.True(t, r.IsTelemetryEnabled())
	assert.Empty(t, r.Active())
}

func TestRegistry_MultipliersCombineMultiplicatively(t *testing.T) {
	defs := []models.Modifier{
		{ID: models.ModifierTurbo, Duration: time.Minute, Effects: models.Effects{SpeedMultiplier: models.Factor(2)}},
		{ID: models.ModifierTimeWarp, Duration: time.Minute, Effects: models.Effects{SpeedMultiplier: models.Factor(2)}},
	}
	r, _, _ := newTestRegistry(t, defs)

	require.Equal(t, OutcomeActivated, r.Activate(models.ModifierTurbo))
	require.Equal(t, OutcomeActivated, r.Activate(models.ModifierTimeWarp))
	assert.Equal(t, 4.0, r.EffectiveSpeedMultiplier())

	require.True(t, r.Deactivate(models.ModifierTimeWarp))
	assert.Equal(t, 2.0, r.EffectiveSpeedMultiplier())
}

func TestRegistry_ActivateTwiceExtendsWithoutSecondNotification(t *testing.T) {
	r, clock, rec := newTestRegistry(t, Defaults())

	require.Equal(t, OutcomeActivated, r.Activate(models.ModifierTurbo))
	assert.Equal(t, 5*time.Minute, r.TimeRemaining(models.ModifierTurbo))

	clock.Advance(time.Minute)
	require.Equal(t, OutcomeExtended, r.Activate(models.ModifierTurbo))
	assert.Equal(t, 9*time.Minute, r.TimeRemaining(models.ModifierTurbo))

	assert.Equal(t, 1, rec.count(events.KindModifierActivated))
}

func TestRegistry_DeactivateOnlyOnTransition(t *testing.T) {
	r, _, rec := newTestRegistry(t, Defaults())

	assert.False(t, r.Deactivate(models.ModifierZen), "inactive modifier")
	assert.False(t, r.Deactivate("nope"), "unknown modifier")
	assert.Empty(t, rec.events)

	r.Activate(models.ModifierZen)
	assert.True(t, r.Deactivate(models.ModifierZen))
	assert.False(t, r.Deactivate(models.ModifierZen))
	assert.Equal(t, []events.Kind{events.KindModifierActivated, events.KindModifierDeactivated}, rec.kinds())
}

func TestRegistry_UnknownActivate(t *testing.T) {
	r, _, rec := newTestRegistry(t, Defaults())
	assert.Equal(t, OutcomeUnknown, r.Activate("nope"))
	assert.Empty(t, rec.events)
}

func TestRegistry_TickExpiresTimeLimited(t *testing.T) {
	r, clock, rec := newTestRegistry(t, Defaults())
	r.Activate(models.ModifierSwarm)   // 3m
	r.Activate(models.ModifierTurbo)   // 5m
	r.Activate(models.ModifierStealth) // permanent

	clock.Advance(3 * time.Minute)
	expired := r.Tick(clock.Now())
	assert.Equal(t, []models.ModifierID{models.ModifierSwarm}, expired, "expiry equal to now deactivates")
	assert.False(t, r.IsActive(models.ModifierSwarm))

	clock.Advance(time.Hour)
	expired = r.Tick(clock.Now())
	assert.Equal(t, []models.ModifierID{models.ModifierTurbo}, expired)
	assert.True(t, r.IsActive(models.ModifierStealth), "permanent modifiers never expire")
	assert.Equal(t, time.Duration(0), r.TimeRemaining(models.ModifierStealth))
	assert.Equal(t, 2, rec.count(events.KindModifierDeactivated))
}

func TestRegistry_CapacityMultiplier(t *testing.T) {
	r, _, _ := newTestRegistry(t, Defaults())

	r.Activate(models.ModifierZen)
	assert.Equal(t, 0.5, r.EffectiveCapacityMultiplier(models.TierBoss))

	r.Activate(models.ModifierSwarm)
	assert.True(t, r.CanBypassCapacity())
	assert.True(t, math.IsInf(r.EffectiveCapacityMultiplier(models.TierIntern), 1), "bypass overrides the product")

	r.Deactivate(models.ModifierSwarm)
	r.Deactivate(models.ModifierZen)

	tiered := []models.Modifier{{
		ID: models.ModifierSwarm,
		Effects: models.Effects{
			CapacityMultiplier: models.Factor(2),
			CapacityTiers:      []models.Tier{models.TierIntern},
		},
	}}
	r2, _, _ := newTestRegistry(t, tiered)
	r2.Activate(models.ModifierSwarm)
	assert.Equal(t, 2.0, r2.EffectiveCapacityMultiplier(models.TierIntern))
	assert.Equal(t, 1.0, r2.EffectiveCapacityMultiplier(models.TierBoss))
}

func TestRegistry_FlagsCombineWithOr(t *testing.T) {
	r, _, _ := newTestRegistry(t, Defaults())

	r.Activate(models.ModifierStealth)
	assert.False(t, r.IsTelemetryEnabled())
	assert.False(t, r.IsAutoPromoteEnabled())

	r.Activate(models.ModifierGodMode)
	assert.True(t, r.IsAutoPromoteEnabled())
	assert.True(t, r.CanBypassCapacity())
	assert.InDelta(t, 0.5*5.0, r.EffectiveSpawnRateMultiplier(), 1e-9)
}

func TestRegistry_UniqueActivatedAndReset(t *testing.T) {
	r, _, _ := newTestRegistry(t, Defaults())
	r.Activate(models.ModifierTurbo)
	r.Deactivate(models.ModifierTurbo)
	r.Activate(models.ModifierTurbo)
	r.Activate(models.ModifierZen)
	assert.Equal(t, 2, r.UniqueActivated())

	r.Reset()
	assert.Empty(t, r.Active())
	assert.Equal(t, 0, r.UniqueActivated())
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r, _, _ := newTestRegistry(t, Defaults())
	r.Activate(models.ModifierTurbo)

	got, ok := r.Get(models.ModifierTurbo)
	require.True(t, ok)
	*got.Effects.SpeedMultiplier = 100
	got.Active = false

	assert.True(t, r.IsActive(models.ModifierTurbo))
	assert.Equal(t, 2.0, r.EffectiveSpeedMultiplier())
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name string
		defs []models.Modifier
		opts []Option
	}{
		{
			name: "unknown id",
			defs: []models.Modifier{{ID: "warp9"}},
		},
		{
			name: "duplicate id",
			defs: []models.Modifier{{ID: models.ModifierZen}, {ID: models.ModifierZen}},
		},
		{
			name: "duration for unknown id",
			defs: Defaults(),
			opts: []Option{WithDurations(map[models.ModifierID]time.Duration{"warp9": time.Second})},
		},
		{
			name: "code longer than buffer",
			defs: Defaults(),
			opts: []Option{WithBufferSize(4)},
		},
		{
			name: "cheat for missing modifier",
			defs: []models.Modifier{{ID: models.ModifierZen}},
			opts: []Option{WithCheatCodes([]CheatCode{{Code: "iddqd", Modifier: models.ModifierGodMode}})},
		},
		{
			name: "cheat with unknown special",
			defs: Defaults(),
			opts: []Option{WithCheatCodes([]CheatCode{{Code: "//pixelhq:party", Special: "party"}})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs, tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestNewRegistry_StockCheatsFollowDefinitions(t *testing.T) {
	defs := []models.Modifier{{ID: models.ModifierZen, Effects: models.Effects{CapacityMultiplier: models.Factor(0.5)}}}
	r, _, _ := newTestRegistry(t, defs)

	_, ok := r.ProcessCheatToken("iddqd")
	assert.False(t, ok, "codes for undefined modifiers are left out")
	assert.False(t, r.IsActive(models.ModifierGodMode))

	got, ok := r.ProcessCheatToken("//pixelhq:zen")
	require.True(t, ok)
	assert.Equal(t, models.ModifierZen, got.Modifier)
	assert.True(t, r.IsActive(models.ModifierZen))

	_, ok = r.ProcessCheatToken("//pixelhq:coffee")
	assert.True(t, ok, "special events stay bound")
}

func TestNewRegistry_DurationOverride(t *testing.T) {
	r, _, _ := newTestRegistry(t, Defaults(), WithDurations(map[models.ModifierID]time.Duration{
		models.ModifierTurbo: 30 * time.Second,
		models.ModifierSwarm: 0,
	}))

	r.Activate(models.ModifierTurbo)
	r.Activate(models.ModifierSwarm)
	assert.Equal(t, 30*time.Second, r.TimeRemaining(models.ModifierTurbo))

	swarm, _ := r.Get(models.ModifierSwarm)
	assert.True(t, swarm.Permanent())
	assert.Nil(t, swarm.ExpiresAt)
}
