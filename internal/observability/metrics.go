package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialschema_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ConstraintViolations counts rejected writes by table and constraint kind.
	ConstraintViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialschema_constraint_violations_total",
		Help: "Total number of writes rejected by a schema constraint",
	}, []string{"table", "kind"})

	// CacheRequests counts cache lookups by result (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialschema_cache_requests_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialschema_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DiagramRenders counts diagram generation attempts by format and result.
	DiagramRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialschema_diagram_renders_total",
		Help: "Total number of diagram renders by format and result",
	}, []string{"format", "result"})

	// SeededRows counts rows written by the seeder per table.
	SeededRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialschema_seeded_rows_total",
		Help: "Total number of rows written by the seeder",
	}, []string{"table"})
)

// DatabaseMetrics records query latency for repositories.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// WriteTextfile dumps the default registry in the text exposition format, for the
// node exporter textfile collector. Short-lived commands have no scrape endpoint.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
