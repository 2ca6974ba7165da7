package modifier

import (
	"time"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// DefaultBufferSize is the number of runes the cheat buffer retains.
const DefaultBufferSize = 40

// Option configures a Registry. Use With* functions to create Options.
type Option func(*registryOptions)

type registryOptions struct {
	clock      func() time.Time
	logger     *zap.Logger
	bus        *events.Bus
	bufferSize int
	cheats     []CheatCode
	durations  map[models.ModifierID]time.Duration

	// customCheats is set when the caller supplied the cheat table.
	customCheats bool
}

func defaultOptions() registryOptions {
	return registryOptions{
		clock:      time.Now,
		logger:     zap.NewNop(),
		bufferSize: DefaultBufferSize,
		cheats:     DefaultCheatCodes(),
	}
}

// WithClock sets the time source used for expiry.
func WithClock(clock func() time.Time) Option {
	return func(o *registryOptions) { o.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *registryOptions) { o.logger = l }
}

// WithBus sets the bus that receives modifier and cheat notifications.
func WithBus(b *events.Bus) Option {
	return func(o *registryOptions) { o.bus = b }
}

// WithBufferSize sets how many runes the cheat buffer retains.
func WithBufferSize(n int) Option {
	return func(o *registryOptions) { o.bufferSize = n }
}

// WithCheatCodes replaces the cheat table. Every code must name a modifier
// the registry defines or a known special event.
func WithCheatCodes(codes []CheatCode) Option {
	return func(o *registryOptions) {
		o.cheats = codes
		o.customCheats = true
	}
}

// WithDurations overrides the nominal duration of individual modifiers.
// A zero duration makes the modifier permanent.
func WithDurations(d map[models.ModifierID]time.Duration) Option {
	return func(o *registryOptions) { o.durations = d }
}
