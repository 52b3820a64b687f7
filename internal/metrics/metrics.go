package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	namespace = "pad_champions"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBConnectionsMax   prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec

	// External API metrics
	ExternalAPIRequestDuration *prometheus.HistogramVec
	ExternalAPIRequestsTotal   *prometheus.CounterVec
	ExternalAPIErrors          *prometheus.CounterVec

	// Business metrics
	PostsTotal             prometheus.Gauge
	ResourcesTotal         *prometheus.GaugeVec
	UsersTotal             prometheus.Gauge
	PostCreatedTotal       prometheus.Counter
	ReplyCreatedTotal      prometheus.Counter
	ResourceUploadedTotal  prometheus.Counter
	ResourceUploadBytes    prometheus.Histogram
	NotificationsSentTotal prometheus.Counter
	ScreeningRequestsTotal *prometheus.CounterVec
	LiveSubscribers        prometheus.Gauge

	logger *zap.Logger
}

// New creates and registers all metrics with the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, nil)
}

// NewWithLogger creates and registers all metrics with the default registry and a logger
func NewWithLogger(logger *zap.Logger) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, logger)
}

// NewWithRegistry creates and registers all metrics with a custom registry
func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	factory := promauto.With(registerer)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),

		DBConnectionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Current number of open database connections",
		}),
		DBConnectionsInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Current number of in-use database connections",
		}),
		DBConnectionsIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Current number of idle database connections",
		}),
		DBConnectionsMax: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_max",
			Help:      "Maximum number of open database connections configured",
		}),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation", "table"},
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_query_errors_total",
				Help:      "Total number of database query errors",
			},
			[]string{"operation", "table"},
		),

		ExternalAPIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "external_api_request_duration_seconds",
				Help:      "External API request duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint", "status"},
		),
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_api_requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		ExternalAPIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_api_errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"endpoint", "error_type"},
		),

		PostsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forum_posts_total",
			Help:      "Total number of forum posts",
		}),
		ResourcesTotal: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "resources_total",
				Help:      "Total number of resource library items by type",
			},
			[]string{"type"},
		),
		UsersTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users_total",
			Help:      "Total number of registered user profiles",
		}),
		PostCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forum_post_created_total",
			Help:      "Total number of forum post creation events",
		}),
		ReplyCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forum_reply_created_total",
			Help:      "Total number of forum reply creation events",
		}),
		ResourceUploadedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_uploaded_total",
			Help:      "Total number of resource file uploads",
		}),
		ResourceUploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resource_upload_bytes",
			Help:      "Size of uploaded resource files in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 9),
		}),
		NotificationsSentTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Total number of inbox notifications written",
		}),
		ScreeningRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "screening_requests_total",
				Help:      "Total number of AI screening requests by outcome",
			},
			[]string{"outcome"},
		),
		LiveSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscribers",
			Help:      "Current number of live update websocket subscribers",
		}),

		logger: logger,
	}
}

// safeExecute wraps metric operations with panic recovery
func (m *Metrics) safeExecute(operation string, fn func()) {
	if m == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation",
				zap.String("operation", operation),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
