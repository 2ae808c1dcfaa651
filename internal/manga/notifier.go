package manga

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/gin-gonic/gin"
)

var heartbeatInterval = 30 * time.Second

// NotificationBroker streams catalog events to Server-Sent Events clients.
type NotificationBroker struct {
	clients map[chan string]bool
	mu      sync.RWMutex
}

func NewBroker() *NotificationBroker {
	return &NotificationBroker{
		clients: make(map[chan string]bool),
	}
}

// ServeSSE holds the connection open until the client goes away.
func (b *NotificationBroker) ServeSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	messageChan := make(chan string, 10)

	b.mu.Lock()
	b.clients[messageChan] = true
	b.mu.Unlock()

	initial, _ := json.Marshal(events.Event{
		Type:      "connected",
		Message:   "Connected to catalog notifications",
		Timestamp: time.Now().Unix(),
	})
	fmt.Fprintf(c.Writer, "data: %s\n\n", initial)
	c.Writer.Flush()

	defer func() {
		b.mu.Lock()
		delete(b.clients, messageChan)
		close(messageChan)
		b.mu.Unlock()
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	notify := c.Request.Context().Done()
	for {
		select {
		case <-notify:
			return
		case <-ticker.C:
			hb, _ := json.Marshal(events.Event{Type: "heartbeat", Timestamp: time.Now().Unix()})
			fmt.Fprintf(c.Writer, "data: %s\n\n", hb)
			c.Writer.Flush()
		case msg := <-messageChan:
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", eventName(msg), msg)
			c.Writer.Flush()
		}
	}
}

func eventName(msg string) string {
	var ev struct {
		Type string `json:"type"`
	}
	if json.Unmarshal([]byte(msg), &ev) != nil || ev.Type == "" {
		return "message"
	}
	return ev.Type
}

// Deliver queues ev for every connected client, skipping full buffers.
// The stream is unauthenticated, so only catalog events are forwarded.
func (b *NotificationBroker) Deliver(ev events.Event) {
	if ev.Type != events.TypeMangaAdded {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for clientChan := range b.clients {
		select {
		case clientChan <- string(data):
		default:
			metrics.IncrementEventsDropped()
		}
	}
}

func (b *NotificationBroker) GetClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
