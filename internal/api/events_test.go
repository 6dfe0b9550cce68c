package api

import (
	"testing"
	"time"
)

func TestEventHubBroadcast(t *testing.T) {
	hub := NewEventHub()

	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	hub.Broadcast(Event{Type: EventCreated, Entity: "mod", EntityID: 5, Name: "Spring Collab"})

	select {
	case ev := <-ch:
		if ev.Type != EventCreated || ev.Entity != "mod" || ev.EntityID != 5 {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.ID == "" {
			t.Error("broadcast must assign an event id")
		}
		if ev.Time.IsZero() {
			t.Error("broadcast must stamp the event time")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEventHubDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewEventHub()

	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	// Overflow the subscriber buffer; Broadcast must drop, not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			hub.Broadcast(Event{Type: EventDeleted, Entity: "map", EntityID: int64(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a full subscriber")
	}
}

func TestEventHubUnsubscribe(t *testing.T) {
	hub := NewEventHub()

	ch := hub.subscribe()
	hub.unsubscribe(ch)

	hub.Broadcast(Event{Type: EventCreated, Entity: "mod", EntityID: 1})

	select {
	case ev := <-ch:
		t.Errorf("unsubscribed channel received event: %+v", ev)
	default:
	}
}
