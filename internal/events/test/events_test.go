package test

import (
	"sync"
	"testing"

	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
)

type collector struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *collector) Deliver(ev events.Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func TestBusFansOut(t *testing.T) {
	metrics.Reset()
	first := &collector{}
	second := &collector{}
	bus := events.NewBus(first)
	bus.Subscribe(second)

	bus.Publish(events.TypeMangaAdded, "New manga added", map[string]string{"id": "12345678901"})

	for i, c := range []*collector{first, second} {
		if len(c.events) != 1 {
			t.Fatalf("sink %d got %d events", i, len(c.events))
		}
		ev := c.events[0]
		if ev.Type != events.TypeMangaAdded || ev.ID == "" || ev.Timestamp == 0 {
			t.Errorf("sink %d got malformed event %+v", i, ev)
		}
	}
	if first.events[0].ID != second.events[0].ID {
		t.Error("sinks should see the same event")
	}
	if metrics.GetEventsPublished() != 1 {
		t.Errorf("events published = %d, want 1", metrics.GetEventsPublished())
	}
}

func TestBusWithoutSinks(t *testing.T) {
	bus := events.NewBus()
	bus.Publish(events.TypeUserDeleted, "gone", nil)

	var d events.Discard
	d.Publish(events.TypeUserRegistered, "ignored", nil)
}
