package metrics

import (
	"sync/atomic"
)

type Metrics struct {
	registrations     int64
	logins            int64
	failedLogins      int64
	mangaCreated      int64
	uploadsRejected   int64
	eventsPublished   int64
	eventsDropped     int64
	activeConnections int64
}

var global = &Metrics{}

func IncrementRegistrations()   { atomic.AddInt64(&global.registrations, 1) }
func IncrementLogins()          { atomic.AddInt64(&global.logins, 1) }
func IncrementFailedLogins()    { atomic.AddInt64(&global.failedLogins, 1) }
func IncrementMangaCreated()    { atomic.AddInt64(&global.mangaCreated, 1) }
func IncrementUploadsRejected() { atomic.AddInt64(&global.uploadsRejected, 1) }
func IncrementEventsPublished() { atomic.AddInt64(&global.eventsPublished, 1) }
func IncrementEventsDropped()   { atomic.AddInt64(&global.eventsDropped, 1) }

func SetActiveConnections(count int64) {
	atomic.StoreInt64(&global.activeConnections, count)
}

func GetRegistrations() int64     { return atomic.LoadInt64(&global.registrations) }
func GetLogins() int64            { return atomic.LoadInt64(&global.logins) }
func GetFailedLogins() int64      { return atomic.LoadInt64(&global.failedLogins) }
func GetMangaCreated() int64      { return atomic.LoadInt64(&global.mangaCreated) }
func GetUploadsRejected() int64   { return atomic.LoadInt64(&global.uploadsRejected) }
func GetEventsPublished() int64   { return atomic.LoadInt64(&global.eventsPublished) }
func GetEventsDropped() int64     { return atomic.LoadInt64(&global.eventsDropped) }
func GetActiveConnections() int64 { return atomic.LoadInt64(&global.activeConnections) }

func Reset() {
	atomic.StoreInt64(&global.registrations, 0)
	atomic.StoreInt64(&global.logins, 0)
	atomic.StoreInt64(&global.failedLogins, 0)
	atomic.StoreInt64(&global.mangaCreated, 0)
	atomic.StoreInt64(&global.uploadsRejected, 0)
	atomic.StoreInt64(&global.eventsPublished, 0)
	atomic.StoreInt64(&global.eventsDropped, 0)
	atomic.StoreInt64(&global.activeConnections, 0)
	ResetRequestMetrics()
}
