package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crowflies"

// Metrics holds the Prometheus collectors for the directory, the HTTP
// distance API and the Kafka query pipeline.
type Metrics struct {
	DirectoryLocations  prometheus.Gauge
	DatasetLoadDuration prometheus.Histogram

	// Distance queries across transports.
	DistanceQueries *prometheus.CounterVec // labels: transport={http,kafka}, outcome={ok,unknown_code,invalid_coordinate,invalid_query}
	QueryDistance   prometheus.Histogram

	// Kafka pipeline.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	PoisonMessages          prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.DirectoryLocations,
		m.DatasetLoadDuration,
		m.DistanceQueries,
		m.QueryDistance,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.PoisonMessages,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		DirectoryLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "directory_locations",
			Help:      help("Number of locations in the loaded directory."),
		}),
		DatasetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      help("Time spent loading the location dataset."),
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		DistanceQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_queries_total",
			Help:      help("Distance queries by transport and outcome."),
		}, []string{"transport", "outcome"}),
		QueryDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_distance",
			Help:      help("Distances returned by successful queries, in the configured unit."),
			Buckets:   []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000},
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      help("Total query messages read from the source topic."),
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      help("Total result messages written to the sink topic."),
		}),
		PoisonMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poison_messages_total",
			Help:      help("Query messages skipped because they could not be decoded."),
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 when the query pipeline is active, 0 when shut down."),
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      help("Number of query messages per batch extracted from Kafka."),
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      help("Duration of a complete batch extract-resolve-load cycle."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// RecordQuery counts one distance query outcome.
func (m *Metrics) RecordQuery(transport, outcome string) {
	m.DistanceQueries.WithLabelValues(transport, outcome).Inc()
}
