package ctxsel

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ctxsel/pkg/vango"
)

// tracerName is the instrumentation scope of ctxsel spans.
const tracerName = "github.com/vango-dev/ctxsel"

// Context is a selector-enabled context. Values are published with
// Provider and read with UseContextSelector or UseContext; there is no
// other read path.
//
// A Context must be created with CreateContext. The zero value is
// rejected by every operation with a *ProtocolError.
type Context[V any] struct {
	key *contextKey

	name     string
	defaults *payload[V]

	metrics  *Metrics
	tracer   trace.Tracer
	registry *Registry
	logger   *slog.Logger
}

// contextKey identifies a context's payload in the owner tree.
type contextKey struct {
	name string
}

// payload is what a provider stores in the owner tree for its descendants.
type payload[V any] struct {
	cell *cell[V]

	// snapshot is the value and version visible to renders under the
	// provider in the current pass.
	snapshot VersionedValue[V]

	update UpdateFunc
}

// ContextConfig configures a Context.
type ContextConfig struct {
	// Name identifies the context in logs, metrics, traces and the
	// registry. Default: "context".
	Name string

	// Registry receives provider lifecycle and publish events.
	// Default: nil (no registry).
	Registry *Registry

	// Metrics records protocol counters. Default: nil (no metrics).
	Metrics *Metrics

	// TracerProvider creates the tracer for update and publish spans.
	// Default: the global otel TracerProvider.
	TracerProvider trace.TracerProvider

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger

	// hookDefault is the value hooks built by CreateProviderFromHook read
	// without a provider. See WithHookDefault.
	hookDefault    any
	hasHookDefault bool
}

// ContextOption configures a Context.
type ContextOption func(*ContextConfig)

// WithName sets the context name.
func WithName(name string) ContextOption {
	return func(c *ContextConfig) {
		c.Name = name
	}
}

// WithRegistry registers the context's providers with r.
func WithRegistry(r *Registry) ContextOption {
	return func(c *ContextConfig) {
		c.Registry = r
	}
}

// WithMetrics records the context's protocol counters in m.
func WithMetrics(m *Metrics) ContextOption {
	return func(c *ContextConfig) {
		c.Metrics = m
	}
}

// WithTracerProvider sets the TracerProvider for update and publish spans.
func WithTracerProvider(tp trace.TracerProvider) ContextOption {
	return func(c *ContextConfig) {
		c.TracerProvider = tp
	}
}

// WithLogger sets the context's logger.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *ContextConfig) {
		c.Logger = l
	}
}

// WithHookDefault sets the value the hooks of CreateProviderFromHook read
// when no provider is above them, instead of panicking with a
// *MissingProviderError. Other contexts ignore it.
func WithHookDefault[H any](def H) ContextOption {
	return func(c *ContextConfig) {
		c.hookDefault = def
		c.hasHookDefault = true
	}
}

// CreateContext creates a selector-enabled context. Subscriptions with no
// provider above them read defaultValue at version -1.
//
// Example:
//
//	type Store struct {
//	    Count1, Count2 int
//	    Set            func(func(Store) Store)
//	}
//
//	var StoreContext = ctxsel.CreateContext(Store{}, ctxsel.WithName("store"))
func CreateContext[V any](defaultValue V, opts ...ContextOption) *Context[V] {
	cfg := ContextConfig{
		Name:   "context",
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	c := &Context[V]{
		key:      &contextKey{name: cfg.Name},
		name:     cfg.Name,
		metrics:  cfg.Metrics,
		tracer:   tp.Tracer(tracerName),
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}

	def := newCell(c, "default", VersionedValue[V]{Value: defaultValue, Version: -1})
	def.published = true
	c.defaults = &payload[V]{
		cell:     def,
		snapshot: def.committed,
		update: func(thunk func(), _ ...UpdateOption) {
			vango.Batch(thunk)
		},
	}

	c.registry.register(c.name)
	return c
}

// Name returns the context name.
func (c *Context[V]) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// valid reports whether c was built by CreateContext.
func (c *Context[V]) valid() bool {
	return c != nil && c.key != nil
}

// lookup returns the payload of the nearest provider, or the default
// payload. It panics with a *ProtocolError on an invalid context.
func (c *Context[V]) lookup(op string) *payload[V] {
	if !c.valid() {
		panic(&ProtocolError{Op: op, Context: c.Name()})
	}
	if pl, ok := vango.GetContext(c.key).(*payload[V]); ok {
		return pl
	}
	return c.defaults
}
