package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry, the client collectors and
// the HTTP server exposing them.
type Metrics struct {
	// Server serves /metrics. Nil when Config.Address is empty.
	Server *http.Server

	// Registry holds every collector registered through this instance.
	Registry *prometheus.Registry

	compiled          *prometheus.CounterVec
	rejected          *prometheus.CounterVec
	transportDuration *prometheus.HistogramVec
	batchObjects      prometheus.Counter
}

var _ Recorder = (*Metrics)(nil)

// NewMetrics builds the registry and registers the client collectors.
// Every metric carries a constant service label.
func NewMetrics(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "vectorwire"
	}

	registry := prometheus.NewRegistry()
	registerer := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{Registry: registry}

	m.compiled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "compiled_requests_total",
		Help:      "Search requests compiled and handed to the transport, by modality.",
	}, []string{"modality"})

	m.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "rejected_requests_total",
		Help:      "Requests rejected before any network call because the server lacks a feature.",
	}, []string{"feature"})

	m.transportDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "transport_duration_seconds",
		Help:      "Duration of transport calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})

	m.batchObjects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "batch_objects_total",
		Help:      "Objects sent in batch requests.",
	})

	registerer.MustRegister(m.compiled, m.rejected, m.transportDuration, m.batchObjects)

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		m.Server = &http.Server{Addr: cfg.Address, Handler: mux}
	}
	return m
}
