package events_test

import (
	"testing"

	"github.com/agentcockpit/cockpit/internal/events"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := events.NewBus()

	var first, second []events.Event
	bus.Subscribe(func(e events.Event) { first = append(first, e) })
	bus.Subscribe(func(e events.Event) { second = append(second, e) })

	bus.Publish(events.Event{Entity: events.EntityChat, Op: events.OpCreated, UUID: "c1"})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both subscribers called once, got %d and %d", len(first), len(second))
	}
	if first[0].Entity != events.EntityChat || first[0].Op != events.OpCreated || first[0].UUID != "c1" {
		t.Errorf("event mismatch: %+v", first[0])
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := events.NewBus()

	var received int
	unsubscribe := bus.Subscribe(func(events.Event) { received++ })

	bus.Publish(events.Event{Entity: events.EntityAgent, Op: events.OpUpdated, UUID: "a1"})
	unsubscribe()
	bus.Publish(events.Event{Entity: events.EntityAgent, Op: events.OpDeleted, UUID: "a1"})

	if received != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", received)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := events.NewBus()
	// Must not panic.
	bus.Publish(events.Event{Entity: events.EntitySetting, Op: events.OpDeleted, UUID: "k"})
}
