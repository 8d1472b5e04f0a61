package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gasnadir_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gasnadir_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Analyst metrics
	AnalystQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_analyst_queries_total",
			Help: "Total number of analyst queries by outcome",
		},
		[]string{"outcome"}, // outcome: insights|policy|fallback
	)

	AnalystLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gasnadir_analyst_query_latency_seconds",
			Help:    "Analyst query latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	InsightsProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_insights_produced_total",
			Help: "Total number of correlated insights by kind",
		},
		[]string{"kind"},
	)

	// News metrics
	NewsSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_news_searches_total",
			Help: "Total number of news searches",
		},
		[]string{"source", "status"}, // source: tavily|cache|mock
	)

	NewsSearchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gasnadir_news_search_latency_seconds",
			Help:    "News search latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	NewsArticlesArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_news_articles_archived_total",
			Help: "Total news articles written to the archive",
		},
		[]string{"origin"}, // origin: tavily|mock|rss
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|clickhouse|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gasnadir_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// System metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gasnadir_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)

	WebSocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gasnadir_websocket_connections",
			Help: "Current number of analyst stream connections",
		},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	Register(prometheus.DefaultRegisterer)
}

// Register registers all metrics with reg
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		WorkerExecutions,
		WorkerDuration,
		WorkerLastRun,

		AnalystQueries,
		AnalystLatency,
		InsightsProduced,

		NewsSearches,
		NewsSearchLatency,
		NewsArticlesArchived,

		DBQueries,
		DBQueryDuration,

		KafkaMessages,
		WebSocketConnections,
	)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	WorkerExecutions.WithLabelValues(worker, status(err)).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordAnalystQuery records one processed query and the insights it produced
func RecordAnalystQuery(outcome string, latency time.Duration, insightKinds []string) {
	AnalystQueries.WithLabelValues(outcome).Inc()
	AnalystLatency.Observe(latency.Seconds())
	for _, kind := range insightKinds {
		InsightsProduced.WithLabelValues(kind).Inc()
	}
}

// RecordNewsSearch records a news search served from source
func RecordNewsSearch(source string, latency time.Duration, err error) {
	NewsSearches.WithLabelValues(source, status(err)).Inc()
	NewsSearchLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// RecordArchived counts archived articles
func RecordArchived(origin string, n int) {
	if n > 0 {
		NewsArticlesArchived.WithLabelValues(origin).Add(float64(n))
	}
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	DBQueries.WithLabelValues(database, operation, status(err)).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// RecordKafkaMessage records a produced message
func RecordKafkaMessage(topic string, err error) {
	KafkaMessages.WithLabelValues(topic, status(err)).Inc()
}
