package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devcamper_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AggregateRecomputes counts derived-field recomputations by kind (cost, rating) and result.
	AggregateRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_aggregate_recomputes_total",
		Help: "Total bootcamp aggregate recomputations by kind and result",
	}, []string{"kind", "result"})

	// AggregateRetriesEnqueued counts failed recomputes handed to the background queue.
	AggregateRetriesEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_aggregate_retries_enqueued_total",
		Help: "Total aggregate recompute retries enqueued by kind and result",
	}, []string{"kind", "result"})

	// CascadeDeletedRows counts child rows removed by bootcamp cascade deletes.
	CascadeDeletedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_cascade_deleted_rows_total",
		Help: "Total rows removed by bootcamp cascade deletes by table",
	}, []string{"table"})

	// GeocoderLookups counts geocoder lookups by provider and result.
	GeocoderLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_geocoder_lookups_total",
		Help: "Total geocoder lookups by provider and result",
	}, []string{"provider", "result"})

	// GeocoderCache counts geocode cache hits and misses.
	GeocoderCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_geocoder_cache_total",
		Help: "Geocode cache lookups by result",
	}, []string{"result"})

	// EventsPublished counts domain events by subject and result.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_events_published_total",
		Help: "Total domain events published by subject and result",
	}, []string{"subject", "result"})

	// PhotoUploads counts bootcamp photo uploads by storage driver and result.
	PhotoUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_photo_uploads_total",
		Help: "Total bootcamp photo uploads by storage driver and result",
	}, []string{"driver", "result"})

	// EmailsSent counts outbound emails by provider and result.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devcamper_emails_sent_total",
		Help: "Total outbound emails by provider and result",
	}, []string{"provider", "result"})
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultEmpty   = "empty"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// ResultLabel maps an error to the success/error label.
func ResultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// DatabaseMetrics records query latency for one table.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance for table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
