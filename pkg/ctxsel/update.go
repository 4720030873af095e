package ctxsel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ctxsel/pkg/vango"
)

// UpdateFunc runs thunk as an update of the provider's value.
//
// It reserves exactly one new version, notifies every subscription that a
// change is coming, then runs thunk inside a batch. The next publish of the
// provider takes the reserved version. If nothing published once the
// batch settled, the reservation is committed with the current value.
// With WithSuspense the reservation stays open until a publish fills it.
type UpdateFunc func(thunk func(), opts ...UpdateOption)

// UpdateOptions configures one update call.
type UpdateOptions struct {
	// Priority is the priority thunk and the notifications run at.
	// Default: the ambient priority of the caller.
	Priority vango.Priority

	// Suspense keeps the reserved version pending until a publish.
	Suspense bool

	// Name is the span name. Default: "ctxsel.update".
	Name string
}

// UpdateOption configures one update call.
type UpdateOption func(*UpdateOptions)

// WithPriority runs the update at p.
func WithPriority(p vango.Priority) UpdateOption {
	return func(o *UpdateOptions) {
		o.Priority = p
	}
}

// WithSuspense marks the update as producing its value asynchronously.
func WithSuspense() UpdateOption {
	return func(o *UpdateOptions) {
		o.Suspense = true
	}
}

// WithUpdateName sets the span name of the update.
func WithUpdateName(name string) UpdateOption {
	return func(o *UpdateOptions) {
		o.Name = name
	}
}

// UseContextUpdate returns the update function of the nearest provider of
// c. Without a provider it runs thunk in a batch and nothing else.
//
// Example:
//
//	update := ctxsel.UseContextUpdate(StoreContext)
//	onClick := func() {
//	    update(func() { setCount(inc) }, ctxsel.WithPriority(vango.UserBlockingPriority))
//	}
func UseContextUpdate[V any](c *Context[V]) UpdateFunc {
	return c.lookup("UseContextUpdate").update
}

func (c *cell[V]) update(thunk func(), opts []UpdateOption) {
	o := UpdateOptions{
		Priority: vango.CurrentPriority(),
		Name:     "ctxsel.update",
	}
	for _, opt := range opts {
		opt(&o)
	}

	_, span := c.ctx.tracer.Start(context.Background(), o.Name,
		trace.WithAttributes(
			attribute.String("ctxsel.context", c.ctx.name),
			attribute.String("ctxsel.provider", c.id),
			attribute.String("ctxsel.priority", o.Priority.String()),
			attribute.Bool("ctxsel.suspense", o.Suspense),
		))
	defer span.End()

	vango.RunWithPriority(o.Priority, func() {
		version := c.reserve(o.Priority)
		span.SetAttributes(attribute.Int64("ctxsel.version", version))

		n := c.notify(signal[V]{version: version, suspense: o.Suspense}, o.Priority)
		span.SetAttributes(attribute.Int("ctxsel.listeners", n))
		c.ctx.metrics.updated(c.ctx.name)
		ev := c.event(EventPending)
		ev.Version = version
		c.ctx.registry.record(ev)

		vango.Batch(func() {
			thunk()
			if !o.Suspense {
				vango.AfterBatch(func() {
					c.resolve(version, o.Priority)
				})
			}
		})
	})
}

// WrapCallbackWithPriority wraps fn so it runs at user-blocking priority.
// Event handlers that update a context use it to render the update ahead
// of pending normal-priority work.
func WrapCallbackWithPriority(fn func()) func() {
	return func() {
		vango.RunWithPriority(vango.UserBlockingPriority, fn)
	}
}
