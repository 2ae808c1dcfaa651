package server

import (
	"net/http"
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Recovery turns panics into the standard failure envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic_recovered", "path", c.Request.URL.Path, "panic", recovered)
		utils.AbortFail(c, http.StatusInternalServerError, "internal server error")
	})
}

// RequestLogger logs each request and feeds the request metrics.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithContext("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordRequest(latency, status >= http.StatusInternalServerError)

		if c.Request.URL.Path == "/api/events" || c.Request.URL.Path == "/ws/events" {
			return
		}
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("http_request", kv...)
		case status >= http.StatusBadRequest:
			log.Warn("http_request", kv...)
		default:
			log.Debug("http_request", kv...)
		}
	}
}
