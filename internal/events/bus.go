// Package events is the application-level notification channel that
// replaces reactive storage queries: mutating store calls publish an
// event, and the UI layer re-reads through the explicit read API.
package events

import "sync"

// Entity kinds carried by store events.
const (
	EntityAgent     = "agent"
	EntityProject   = "project"
	EntityChat      = "chat"
	EntityMessage   = "message"
	EntityAnalytics = "analytics"
	EntitySetting   = "setting"
)

// Operations carried by store events.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Event describes one store mutation. Subscribers re-read the record by
// UUID; events never carry record payloads.
type Event struct {
	Entity string
	Op     string
	UUID   string
}

// Bus is a synchronous in-process pub/sub fan-out. Publish calls each
// subscriber on the publishing goroutine; subscribers must not block.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns an unsubscribe function.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers event to every current subscriber.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}
