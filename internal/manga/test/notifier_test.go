package test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/internal/manga"
	"github.com/gin-gonic/gin"
)

func readData(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			return name, strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestBrokerStreamsCatalogEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	broker := manga.NewBroker()
	router := gin.New()
	router.GET("/events", broker.ServeSSE)
	ts := httptest.NewServer(router)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	if _, data := readData(t, reader); !strings.Contains(data, `"connected"`) {
		t.Fatalf("expected connected frame, got %s", data)
	}
	if broker.GetClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", broker.GetClientCount())
	}

	broker.Deliver(events.Event{Type: events.TypeUserRegistered, Message: "private"})
	broker.Deliver(events.Event{ID: "ev-1", Type: events.TypeMangaAdded, Message: "New manga added"})

	name, data := readData(t, reader)
	if name != events.TypeMangaAdded {
		t.Errorf("expected manga_added frame, got %q", name)
	}
	if strings.Contains(data, "private") || !strings.Contains(data, `"ev-1"`) {
		t.Errorf("unexpected frame %s", data)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for broker.GetClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if broker.GetClientCount() != 0 {
		t.Error("client not removed after disconnect")
	}
}
