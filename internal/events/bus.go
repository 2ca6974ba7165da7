package events

// Handler receives events. Handlers run synchronously on the publisher's
// call stack and must not block.
type Handler func(Event)

type subscriber struct {
	id   uint64
	kind Kind // empty matches every kind
	fn   Handler
}

// Bus delivers events to subscribers in subscription order.
//
// A Bus is not safe for concurrent use; like the components that publish on
// it, it is driven from a single goroutine. A nil *Bus drops everything.
type Bus struct {
	subs   []subscriber
	nextID uint64
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for one kind of event. The returned func removes the
// subscription and is safe to call more than once.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	return b.add(kind, h)
}

// SubscribeAll registers h for every kind of event.
func (b *Bus) SubscribeAll(h Handler) func() {
	return b.add("", h)
}

func (b *Bus) add(kind Kind, h Handler) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, kind: kind, fn: h})
	return func() { b.remove(id) }
}

func (b *Bus) remove(id uint64) {
	for i, s := range b.subs {
		if s.id == id {
			// Copy instead of shifting in place so a Publish that is
			// iterating the old slice is unaffected.
			next := make([]subscriber, 0, len(b.subs)-1)
			next = append(next, b.subs[:i]...)
			b.subs = append(next, b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching subscriber. Subscriptions added or
// removed by a handler take effect from the next Publish.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	subs := b.subs
	for _, s := range subs {
		if s.kind == "" || s.kind == e.Kind {
			s.fn(e)
		}
	}
}

// Len returns the number of subscriptions.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.subs)
}
