// Package office composes the hierarchy engine, the modifier registry and the
// progression tracker into one simulated office, and applies the rules that
// connect them: experience for hiring and delegating, achievements as counts
// change, auto-promotion and intern auto-hiring.
//
// Components talk to each other only through the event bus. Cross-component
// reactions triggered by a notification are queued and run after the
// triggering call returns, so no handler mutates a component while that
// component is still publishing.
package office

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/config"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/hierarchy"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/modifier"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/progression"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/xp"
)

// Option configures an Office. Use With* functions to create Options.
type Option func(*officeOptions)

type officeOptions struct {
	cfg    *config.Config
	clock  func() time.Time
	logger *zap.Logger
	newID  func() string
}

// WithConfig sets the configuration the components are built from.
func WithConfig(cfg *config.Config) Option {
	return func(o *officeOptions) { o.cfg = cfg }
}

// WithClock sets where office time starts. The clock is read once by New;
// after that office time only moves forward through Tick.
func WithClock(clock func() time.Time) Option {
	return func(o *officeOptions) { o.clock = clock }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *zap.Logger) Option {
	return func(o *officeOptions) { o.logger = l }
}

// WithIDGenerator sets the delegation id generator.
func WithIDGenerator(f func() string) Option {
	return func(o *officeOptions) { o.newID = f }
}

// settings are the office-level knobs taken from config.
type settings struct {
	perRegistration     int
	perSkillComplete    int
	perModifierActivate int
	spawnRate           float64
	autoSpawnCap        int
	autoPromoteLevel    int
}

// flags are external signals that feed achievement conditions.
type flags struct {
	ciGreen       bool
	deployed      bool
	promoted      bool
	cheatAccepted bool
}

// Office is the composition root. It is not safe for concurrent use; callers
// that drive it from several goroutines must serialize access.
type Office struct {
	bus       *events.Bus
	catalog   *catalog.Catalog
	modifiers *modifier.Registry
	engine    *hierarchy.Engine
	tracker   *progression.Tracker

	settings settings
	flags    flags
	nextID   int

	// pending holds reactions queued by event handlers.
	pending  []func()
	settling bool

	clock  *simClock
	logger *zap.Logger
}

// simClock is the office's notion of now: a fixed start plus the time
// accumulated by Tick. Every component reads it, so modifier expiry follows
// the simulation rather than the wall clock.
type simClock struct {
	start   time.Time
	elapsed time.Duration
}

func (c *simClock) Now() time.Time { return c.start.Add(c.elapsed) }

func (c *simClock) advance(dt time.Duration) {
	if dt > 0 {
		c.elapsed += dt
	}
}

// New builds an office from configuration.
func New(opts ...Option) (*Office, error) {
	o := officeOptions{clock: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := catalog.New(cfg.Tiers.Capacities())
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	bus := events.NewBus()
	clock := &simClock{start: o.clock()}

	durations, err := cfg.Modifiers.DurationOverrides()
	if err != nil {
		return nil, fmt.Errorf("modifier durations: %w", err)
	}
	mods, err := modifier.NewRegistry(modifier.Defaults(),
		modifier.WithClock(clock.Now),
		modifier.WithLogger(o.logger.Named("modifier")),
		modifier.WithBus(bus),
		modifier.WithBufferSize(cfg.Modifiers.CheatBuffer),
		modifier.WithDurations(durations),
	)
	if err != nil {
		return nil, fmt.Errorf("building modifier registry: %w", err)
	}

	engineOpts := []hierarchy.Option{
		hierarchy.WithCatalog(cat),
		hierarchy.WithCapacityPolicy(mods),
		hierarchy.WithCurve(xp.Curve{Base: cfg.XP.Base, Rate: cfg.XP.Rate}),
		hierarchy.WithRewards(hierarchy.Rewards{
			Delegation:    cfg.XP.PerDelegation,
			Promotion:     cfg.XP.PerPromotion,
			SkillComplete: cfg.XP.PerSkillComplete,
		}),
		hierarchy.WithActivityDecay(cfg.Hierarchy.ActivityDecay),
		hierarchy.WithDelegationWindow(cfg.Hierarchy.DelegationWindow),
		hierarchy.WithMaxSearchDepth(cfg.Hierarchy.MaxSearchDepth),
		hierarchy.WithClock(clock.Now),
		hierarchy.WithLogger(o.logger.Named("hierarchy")),
		hierarchy.WithBus(bus),
	}
	if o.newID != nil {
		engineOpts = append(engineOpts, hierarchy.WithIDGenerator(o.newID))
	}
	engine := hierarchy.New(engineOpts...)

	tracker, err := progression.New(progression.DefaultAchievements(), progression.DefaultQuests(),
		progression.WithCurve(xp.Curve{Base: cfg.XP.TeamBase, Rate: cfg.XP.Rate}),
		progression.WithMilestoneLevel(cfg.XP.MilestoneLevel),
		progression.WithClock(clock.Now),
		progression.WithLogger(o.logger.Named("progression")),
		progression.WithBus(bus),
	)
	if err != nil {
		return nil, fmt.Errorf("building progression tracker: %w", err)
	}

	off := &Office{
		bus:       bus,
		catalog:   cat,
		modifiers: mods,
		engine:    engine,
		tracker:   tracker,
		settings: settings{
			perRegistration:     cfg.XP.PerRegistration,
			perSkillComplete:    cfg.XP.PerSkillComplete,
			perModifierActivate: cfg.XP.PerModifierActivate,
			spawnRate:           cfg.Office.SpawnRate,
			autoSpawnCap:        cfg.Office.AutoSpawnCap,
			autoPromoteLevel:    cfg.Office.AutoPromoteLevel,
		},
		nextID: 1,
		clock:  clock,
		logger: o.logger,
	}
	off.wire()
	return off, nil
}

// later queues a reaction to run once the current call has finished
// publishing.
func (o *Office) later(fn func()) {
	o.pending = append(o.pending, fn)
}

// settle runs queued reactions in order until none remain. Reactions may
// queue further reactions.
func (o *Office) settle() {
	if o.settling {
		return
	}
	o.settling = true
	defer func() { o.settling = false }()
	for len(o.pending) > 0 {
		fn := o.pending[0]
		o.pending = o.pending[1:]
		fn()
	}
	o.pending = nil
}

// Subscribe registers a handler for one kind of event.
func (o *Office) Subscribe(kind events.Kind, h events.Handler) func() {
	return o.bus.Subscribe(kind, h)
}

// SubscribeAll registers a handler for every event.
func (o *Office) SubscribeAll(h events.Handler) func() {
	return o.bus.SubscribeAll(h)
}

// Telemetry returns a channel sink fed with every event while telemetry is
// enabled. Events raised while a modifier disables telemetry are not
// forwarded.
func (o *Office) Telemetry(bufferSize int) (*events.ChannelSink, func()) {
	sink := events.NewChannelSink(bufferSize, o.logger.Named("telemetry"))
	cancel := o.bus.SubscribeAll(func(e events.Event) {
		if o.modifiers.IsTelemetryEnabled() {
			sink.Handle(e)
		}
	})
	return sink, cancel
}

// Catalog returns the tier catalog.
func (o *Office) Catalog() *catalog.Catalog {
	return o.catalog
}
