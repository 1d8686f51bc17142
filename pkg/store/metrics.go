package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures store Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "corestate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for mutate duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures store metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the mutate duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "corestate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for one or more stores. A single
// Metrics value may be shared: per-store series are split by the "store"
// label. Attach with the WithMetrics store option. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	actionsTotal    *prometheus.CounterVec
	mutateDuration  *prometheus.HistogramVec
	effectsActive   *prometheus.GaugeVec
	observersActive *prometheus.GaugeVec
}

// NewMetrics registers and returns the store metric set.
//
// Metrics collected:
//   - corestate_actions_total: Counter of dispatched actions by store and kind
//   - corestate_mutate_duration_seconds: Histogram of reducer mutate duration
//   - corestate_effects_active: Gauge of currently live effects per store
//   - corestate_observers_active: Gauge of currently attached observers per store
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of actions dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "kind"}),

		mutateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutate_duration_seconds",
			Help:        "Reducer mutate duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		effectsActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_active",
			Help:        "Number of currently live effects",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		observersActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observers_active",
			Help:        "Number of currently attached observers",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),
	}
}

func (m *Metrics) recordAction(store, kind string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(store, kind).Inc()
}

func (m *Metrics) observeMutate(store string, d time.Duration) {
	if m == nil {
		return
	}
	m.mutateDuration.WithLabelValues(store).Observe(d.Seconds())
}

func (m *Metrics) setEffectsActive(store string, n int64) {
	if m == nil {
		return
	}
	m.effectsActive.WithLabelValues(store).Set(float64(n))
}

func (m *Metrics) setObserversActive(store string, n int) {
	if m == nil {
		return
	}
	m.observersActive.WithLabelValues(store).Set(float64(n))
}
