package hierarchy

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/xp"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

const (
	// DefaultActivityDecay is how much activity an agent loses per second.
	DefaultActivityDecay = 0.05
	// DefaultDelegationWindow is how many delegation records are retained.
	DefaultDelegationWindow = 100
	// DefaultMaxSearchDepth bounds the downward subtree search.
	DefaultMaxSearchDepth = 16
)

// CapacityPolicy decides how far tier population limits stretch.
// *modifier.Registry satisfies it.
type CapacityPolicy interface {
	CanBypassCapacity() bool
	EffectiveCapacityMultiplier(tier models.Tier) float64
}

type fixedCapacity struct{}

func (fixedCapacity) CanBypassCapacity() bool                       { return false }
func (fixedCapacity) EffectiveCapacityMultiplier(models.Tier) float64 { return 1 }

// Rewards is the experience granted for engine actions.
type Rewards struct {
	// Delegation goes to the delegating agent for every routed skill.
	Delegation int
	// Promotion goes to the promoted agent.
	Promotion int
	// SkillComplete goes to the agent finishing a queued skill.
	SkillComplete int
}

// DefaultRewards returns the stock rewards.
func DefaultRewards() Rewards {
	return Rewards{Delegation: 25, Promotion: 100, SkillComplete: 50}
}

// Option configures an Engine. Use With* functions to create Options.
type Option func(*engineOptions)

type engineOptions struct {
	catalog        *catalog.Catalog
	policy         CapacityPolicy
	curve          xp.Curve
	rewards        Rewards
	activityDecay  float64
	window         int
	maxSearchDepth int
	clock          func() time.Time
	newID          func() string
	logger         *zap.Logger
	bus            *events.Bus
}

func defaultOptions() engineOptions {
	return engineOptions{
		catalog:        catalog.Default(),
		policy:         fixedCapacity{},
		curve:          xp.DefaultCurve(),
		rewards:        DefaultRewards(),
		activityDecay:  DefaultActivityDecay,
		window:         DefaultDelegationWindow,
		maxSearchDepth: DefaultMaxSearchDepth,
		clock:          time.Now,
		newID:          func() string { return uuid.New().String()[:8] },
		logger:         zap.NewNop(),
	}
}

// WithCatalog sets the tier catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *engineOptions) { o.catalog = c }
}

// WithCapacityPolicy sets who decides capacity bypass and multipliers.
func WithCapacityPolicy(p CapacityPolicy) Option {
	return func(o *engineOptions) { o.policy = p }
}

// WithCurve sets the per-agent level curve.
func WithCurve(c xp.Curve) Option {
	return func(o *engineOptions) { o.curve = c }
}

// WithRewards sets the experience granted for engine actions.
func WithRewards(r Rewards) Option {
	return func(o *engineOptions) { o.rewards = r }
}

// WithActivityDecay sets the activity lost per second of simulated time.
func WithActivityDecay(perSecond float64) Option {
	return func(o *engineOptions) { o.activityDecay = perSecond }
}

// WithDelegationWindow sets how many delegation records Tick retains.
func WithDelegationWindow(n int) Option {
	return func(o *engineOptions) { o.window = n }
}

// WithMaxSearchDepth bounds how deep routing searches below an agent.
func WithMaxSearchDepth(n int) Option {
	return func(o *engineOptions) { o.maxSearchDepth = n }
}

// WithClock sets the time source for delegation timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *engineOptions) { o.clock = clock }
}

// WithIDGenerator sets the delegation id generator.
func WithIDGenerator(f func() string) Option {
	return func(o *engineOptions) { o.newID = f }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithBus sets the bus that receives hierarchy notifications.
func WithBus(b *events.Bus) Option {
	return func(o *engineOptions) { o.bus = b }
}
