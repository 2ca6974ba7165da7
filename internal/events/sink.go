package events

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// ChannelSink forwards events into a buffered channel for consumers that live
// outside the office's call stack, such as a transport or a TUI.
//
// Handle never blocks: when the buffer is full the event is dropped and
// counted.
type ChannelSink struct {
	events       chan Event
	droppedCount atomic.Uint64
	logger       *zap.Logger
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(bufferSize int, logger *zap.Logger) *ChannelSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelSink{
		events: make(chan Event, bufferSize),
		logger: logger,
	}
}

// Handle offers the event to the channel. It has the Handler signature so it
// can be passed straight to Bus.SubscribeAll.
func (s *ChannelSink) Handle(e Event) {
	select {
	case s.events <- e:
		return
	default:
	}

	count := s.droppedCount.Add(1)
	if count%10 == 1 { // Log every 10th drop to avoid spam
		s.logger.Warn("event channel full, dropping event",
			zap.String("kind", string(e.Kind)),
			zap.Uint64("dropped_total", count))
	}
}

// Events returns a read-only channel of events.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// Drain returns every buffered event without blocking.
func (s *ChannelSink) Drain() []Event {
	var out []Event
	for {
		select {
		case e, ok := <-s.events:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (s *ChannelSink) DroppedCount() uint64 {
	return s.droppedCount.Load()
}

// Close closes the events channel. Handle must not be called afterwards.
func (s *ChannelSink) Close() {
	close(s.events)
}
