package event

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the per-subscription channel buffer.
const DefaultBufferSize = 256

// Bus is an in-memory fan-out of execution events. Publish never blocks the
// publisher: a subscriber that falls behind its buffer drops events (the
// execution engine must not stall on a slow observer).
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription

	bufferSize int
	onDrop     func(evt Event, subscriberID string)

	nextID atomic.Int64
	closed atomic.Bool
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBufferSize sets the per-subscription channel buffer.
func WithBufferSize(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// WithOnDrop installs a callback invoked when a subscriber's buffer is full
// and an event is dropped.
func WithOnDrop(fn func(evt Event, subscriberID string)) BusOption {
	return func(b *Bus) { b.onDrop = fn }
}

// NewBus creates a new event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subscriptions: make(map[string]*Subscription),
		bufferSize:    DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription is a registered consumer. Read events from C; call
// Unsubscribe when done. C is closed on Unsubscribe and on bus Close.
type Subscription struct {
	// C delivers matching events.
	C <-chan Event

	id     string
	types  map[Type]bool // nil = all types
	events chan Event
	bus    *Bus
	once   sync.Once
}

// Subscribe registers a consumer for the given event types.
// With no types, the subscription receives every event.
func (b *Bus) Subscribe(types ...Type) *Subscription {
	if b.closed.Load() {
		ch := make(chan Event)
		close(ch)
		return &Subscription{C: ch}
	}

	var typeSet map[Type]bool
	if len(types) > 0 {
		typeSet = make(map[Type]bool, len(types))
		for _, t := range types {
			typeSet[t] = true
		}
	}

	events := make(chan Event, b.bufferSize)
	sub := &Subscription{
		C:      events,
		id:     strconv.FormatInt(b.nextID.Add(1), 10),
		types:  typeSet,
		events: events,
		bus:    b,
	}

	b.mu.Lock()
	b.subscriptions[sub.id] = sub
	b.mu.Unlock()

	return sub
}

// Publish delivers an event to all matching subscriptions.
func (b *Bus) Publish(evt Event) {
	if b.closed.Load() {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscriptions {
		if sub.types != nil && !sub.types[evt.Type] {
			continue
		}
		select {
		case sub.events <- evt:
		default:
			if b.onDrop != nil {
				b.onDrop(evt, sub.id)
			}
		}
	}
}

// Close shuts down the bus and closes all subscription channels.
func (b *Bus) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscriptions {
		delete(b.subscriptions, id)
		close(sub.events)
	}
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		if _, ok := s.bus.subscriptions[s.id]; ok {
			delete(s.bus.subscriptions, s.id)
			close(s.events)
		}
	})
}
