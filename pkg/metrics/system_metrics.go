package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type RequestMetrics struct {
	RequestsServed atomic.Int64
	RequestsFailed atomic.Int64
	AverageLatency atomic.Int64
	PeakLatency    atomic.Int64
	mu             sync.Mutex
	startTime      time.Time
}

var requestMetrics = &RequestMetrics{startTime: time.Now()}

// RecordRequest tracks one served HTTP request. failed marks 5xx responses.
func RecordRequest(latency time.Duration, failed bool) {
	ms := latency.Milliseconds()
	served := requestMetrics.RequestsServed.Add(1)
	if failed {
		requestMetrics.RequestsFailed.Add(1)
	}

	requestMetrics.mu.Lock()
	current := requestMetrics.AverageLatency.Load()
	requestMetrics.AverageLatency.Store((current*(served-1) + ms) / served)
	if ms > requestMetrics.PeakLatency.Load() {
		requestMetrics.PeakLatency.Store(ms)
	}
	requestMetrics.mu.Unlock()
}

func GetRequestMetrics() map[string]int64 {
	return map[string]int64{
		"requests_served":    requestMetrics.RequestsServed.Load(),
		"requests_failed":    requestMetrics.RequestsFailed.Load(),
		"average_latency_ms": requestMetrics.AverageLatency.Load(),
		"peak_latency_ms":    requestMetrics.PeakLatency.Load(),
	}
}

func ResetRequestMetrics() {
	requestMetrics.mu.Lock()
	defer requestMetrics.mu.Unlock()
	requestMetrics.RequestsServed.Store(0)
	requestMetrics.RequestsFailed.Store(0)
	requestMetrics.AverageLatency.Store(0)
	requestMetrics.PeakLatency.Store(0)
	requestMetrics.startTime = time.Now()
}

func GetUptime() time.Duration {
	requestMetrics.mu.Lock()
	defer requestMetrics.mu.Unlock()
	return time.Since(requestMetrics.startTime)
}
