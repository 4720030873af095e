package ctxsel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics of selector contexts.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ctxsel").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registerer is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegisterer sets the Prometheus registerer.
func WithRegisterer(r prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registerer = r
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:  "ctxsel",
		Registerer: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the protocol counters, labelled by context name.
// A nil *Metrics records nothing.
type Metrics struct {
	publishes         *prometheus.CounterVec
	publishBailouts   *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	rerenders         *prometheus.CounterVec
	selectionBailouts *prometheus.CounterVec
	selectorErrors    *prometheus.CounterVec
	updates           *prometheus.CounterVec
	listeners         *prometheus.GaugeVec
}

// NewMetrics creates and registers the metrics.
//
// Metrics collected:
//   - ctxsel_publishes_total: values committed with a new version
//   - ctxsel_publish_bailouts_total: provider commits of an identical value
//   - ctxsel_notifications_total: listener invocations
//   - ctxsel_rerenders_requested_total: notifications that changed a selection
//   - ctxsel_selection_bailouts_total: notifications with an identical selection
//   - ctxsel_selector_errors_total: selector panics
//   - ctxsel_updates_total: update function calls
//   - ctxsel_listeners: registered listeners
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registerer)

	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		}, []string{"context"})
	}

	return &Metrics{
		publishes:         counter("publishes_total", "Values committed by providers with a new version"),
		publishBailouts:   counter("publish_bailouts_total", "Provider commits skipped because the value was identical"),
		notifications:     counter("notifications_total", "Listener invocations"),
		rerenders:         counter("rerenders_requested_total", "Notifications that changed a selection and requested a render"),
		selectionBailouts: counter("selection_bailouts_total", "Notifications whose selection was identical"),
		selectorErrors:    counter("selector_errors_total", "Selector panics recovered as transient errors"),
		updates:           counter("updates_total", "Update function calls"),
		listeners: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "listeners",
			Help:        "Registered subscription listeners",
			ConstLabels: cfg.ConstLabels,
		}, []string{"context"}),
	}
}

func (m *Metrics) publish(ctx string) {
	if m != nil {
		m.publishes.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) publishBailout(ctx string) {
	if m != nil {
		m.publishBailouts.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) notified(ctx string, n int) {
	if m != nil && n > 0 {
		m.notifications.WithLabelValues(ctx).Add(float64(n))
	}
}

func (m *Metrics) rerender(ctx string) {
	if m != nil {
		m.rerenders.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) selectionBailout(ctx string) {
	if m != nil {
		m.selectionBailouts.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) selectorError(ctx string) {
	if m != nil {
		m.selectorErrors.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) updated(ctx string) {
	if m != nil {
		m.updates.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) listenerAdded(ctx string) {
	if m != nil {
		m.listeners.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) listenerRemoved(ctx string) {
	if m != nil {
		m.listeners.WithLabelValues(ctx).Dec()
	}
}
