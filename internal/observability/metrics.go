package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsPublished counts posts transitioned to the published status, by content type.
	PostsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_posts_published_total",
		Help: "Total number of posts published by content type",
	}, []string{"type"})

	// CommentsModerated counts comment status transitions by resulting status.
	CommentsModerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_comments_moderated_total",
		Help: "Total number of comment moderation transitions by resulting status",
	}, []string{"status"})

	// LikesToggled counts like toggles by action and target kind.
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_likes_toggled_total",
		Help: "Total number of like toggles by action and target",
	}, []string{"action", "target"})

	// CacheHits counts cache hits by key class.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_hits_total",
		Help: "Total number of cache hits by key class",
	}, []string{"cache"})

	// CacheMisses counts cache misses by key class.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_misses_total",
		Help: "Total number of cache misses by key class",
	}, []string{"cache"})

	// AuthFailures counts failed authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_failures_total",
		Help: "Total number of failed authentication attempts by reason",
	}, []string{"reason"})

	// MediaUploadBytes records the size distribution of uploaded media files.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inkwell_media_upload_bytes",
		Help:    "Size in bytes of uploaded media files",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
