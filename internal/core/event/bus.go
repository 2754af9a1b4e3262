package event

import "sync"

// Handler receives every event published in the categories it subscribed to.
// Handlers check Data.Action themselves.
type Handler func(Data)

type entry struct {
	id uint64
	fn Handler
}

// Bus is a synchronous publish/subscribe bus keyed by category. Publish
// delivers to every subscriber before returning, in registration order.
// Handlers may publish; nested events are delivered depth-first.
//
// The bus is owned by the game that creates it; there is no global instance.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	handlers map[Category][]entry
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Category][]entry),
	}
}

// Subscribe registers fn for category c. The same function may be registered
// for several categories; each registration gets its own Subscription.
func (b *Bus) Subscribe(c Category, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[c] = append(b.handlers[c], entry{id: b.nextID, fn: fn})
	return Subscription{bus: b, category: c, id: b.nextID}
}

// Publish delivers d to the subscribers of d.Category. With no subscribers
// it does nothing. Subscriptions added or cancelled by a handler take effect
// from the next Publish.
func (b *Bus) Publish(d Data) {
	b.mu.Lock()
	list := b.handlers[d.Category]
	if len(list) == 0 {
		b.mu.Unlock()
		return
	}
	snapshot := make([]entry, len(list))
	copy(snapshot, list)
	b.mu.Unlock()

	for _, e := range snapshot {
		e.fn(d)
	}
}

// Subscribers returns the number of handlers registered for c.
func (b *Bus) Subscribers(c Category) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[c])
}

func (b *Bus) unsubscribe(c Category, id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[c]
	for i, e := range list {
		if e.id == id {
			b.handlers[c] = append(list[:i:i], list[i+1:]...)
			if len(b.handlers[c]) == 0 {
				delete(b.handlers, c)
			}
			return true
		}
	}
	return false
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus      *Bus
	category Category
	id       uint64
}

// Cancel removes the handler. Cancelling twice, or a zero Subscription, is a
// no-op.
func (s Subscription) Cancel() bool {
	if s.bus == nil {
		return false
	}
	return s.bus.unsubscribe(s.category, s.id)
}

func (s Subscription) Category() Category { return s.category }

// Group collects the subscriptions of one owner so they can be released
// together when the owner is closed.
type Group struct {
	subs []Subscription
}

func (g *Group) Add(s ...Subscription) {
	g.subs = append(g.subs, s...)
}

// Subscribe registers fn and keeps the subscription in the group.
func (g *Group) Subscribe(b *Bus, c Category, fn Handler) {
	g.subs = append(g.subs, b.Subscribe(c, fn))
}

// Cancel releases every subscription in the group.
func (g *Group) Cancel() {
	for _, s := range g.subs {
		s.Cancel()
	}
	g.subs = nil
}

func (g *Group) Len() int { return len(g.subs) }
