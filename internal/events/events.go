package events

import (
	"sync"
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/google/uuid"
)

const (
	TypeUserRegistered = "user_registered"
	TypeUserDeleted    = "user_deleted"
	TypeRoleChanged    = "role_changed"
	TypeMangaAdded     = "manga_added"
)

type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Sink receives published events. Implementations must not block.
type Sink interface {
	Deliver(ev Event)
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(eventType, message string, data interface{})
}

// Bus fans events out to every registered sink.
type Bus struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewBus(sinks ...Sink) *Bus {
	return &Bus{sinks: sinks}
}

func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

func (b *Bus) Publish(eventType, message string, data interface{}) {
	ev := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.sinks {
		s.Deliver(ev)
	}
	metrics.IncrementEventsPublished()
}

// Discard drops everything; used where no feed is wired.
type Discard struct{}

func (Discard) Publish(string, string, interface{}) {}
