package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Metrics(c *gin.Context) {
	body := gin.H{
		"registrations_total":    GetRegistrations(),
		"logins_total":           GetLogins(),
		"failed_logins_total":    GetFailedLogins(),
		"manga_created_total":    GetMangaCreated(),
		"uploads_rejected_total": GetUploadsRejected(),
		"events_published_total": GetEventsPublished(),
		"events_dropped_total":   GetEventsDropped(),
		"active_connections":     GetActiveConnections(),
		"uptime_seconds":         int64(GetUptime().Seconds()),
	}
	for k, v := range GetRequestMetrics() {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
