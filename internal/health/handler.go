package health

import (
	"net/http"
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the record store.
type Pinger interface {
	Ping() error
}

type Handler struct {
	store Pinger
}

func NewHandler(store Pinger) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *Handler) Readyz(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "store_not_initialized"})
		return
	}

	if err := h.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "store_ping_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Health is the combined status page served on /health.
func (h *Handler) Health(c *gin.Context) {
	storeStatus := "ok"
	status := http.StatusOK
	if h.store == nil || h.store.Ping() != nil {
		storeStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success":            status == http.StatusOK,
		"store":              storeStatus,
		"uptime_seconds":     int64(metrics.GetUptime() / time.Second),
		"active_connections": metrics.GetActiveConnections(),
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
	})
}
