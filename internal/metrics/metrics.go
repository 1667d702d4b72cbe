package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application: counters for
// incoming messages and their outcomes, and histograms for the two external
// calls a message may trigger.
type Metrics struct {
	CommandReceived  *prometheus.CounterVec   // Counter for received commands
	MessagesHandled  *prometheus.CounterVec   // Counter for processed text messages by outcome
	RateLimited      prometheus.Counter       // Counter for rejected over-limit requests
	DBQueryDuration  *prometheus.HistogramVec // Histogram for database query durations
	FallbackDuration prometheus.Histogram     // Histogram for fallback completion durations
}

// NewMetrics creates a new Metrics instance with the provided Prometheus
// Registerer and registers every collector on it.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CommandReceived: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Total number of used commands",
		}, []string{"command"}), // command: /start, /clear, /employees, /addemployee, /export
		MessagesHandled: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_messages_handled_total",
			Help: "Total number of processed text messages",
		}, []string{"outcome"}), // outcome: directory, fallback, error
		RateLimited: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "telegram_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "telegram_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'resolve', 'list_employees', 'create_employee'
		FallbackDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "telegram_fallback_duration_seconds",
			Help:    "Duration of conversational fallback completions.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
