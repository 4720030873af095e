package ctxsel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ctxsel/pkg/vango"
)

// VersionedValue is an immutable snapshot of a published value.
type VersionedValue[V any] struct {
	Value   V
	Version int64
}

// signal is what listeners receive. A signal without a value announces a
// version reserved by an update that has not been published yet.
type signal[V any] struct {
	version  int64
	value    V
	hasValue bool
	suspense bool
}

// listener is a registered callback. Its identity is stable for the
// lifetime of one registration.
type listener[V any] struct {
	fn     func(signal[V])
	active bool
}

// listenerSet keeps listeners in registration order.
type listenerSet[V any] struct {
	items []*listener[V]
}

func (s *listenerSet[V]) add(fn func(signal[V])) *listener[V] {
	l := &listener[V]{fn: fn, active: true}
	s.items = append(s.items, l)
	return l
}

// remove deactivates l, so a notification already in flight skips it.
func (s *listenerSet[V]) remove(l *listener[V]) {
	l.active = false
	for i, item := range s.items {
		if item == l {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *listenerSet[V]) snapshot() []*listener[V] {
	out := make([]*listener[V], len(s.items))
	copy(out, s.items)
	return out
}

func (s *listenerSet[V]) len() int {
	return len(s.items)
}

func (s *listenerSet[V]) clear() {
	for _, l := range s.items {
		l.active = false
	}
	s.items = nil
}

// cell is the versioned value owned by one provider instance.
//
// The committed snapshot and the reservation only change inside commit
// phase effects and update calls. Renders read them and never write.
type cell[V any] struct {
	id  string
	ctx *Context[V]

	committed VersionedValue[V]

	// reserved is the highest version handed out by update. A reservation
	// is outstanding while it is greater than the committed version; the
	// next publish takes it instead of bumping again.
	reserved int64

	// boost is the highest priority of the updates behind the outstanding
	// reservation. The publish or resolve that fills it notifies at that
	// priority when it is above normal.
	boost vango.Priority

	listeners listenerSet[V]

	published bool
	disposed  bool
}

func newCell[V any](ctx *Context[V], id string, initial VersionedValue[V]) *cell[V] {
	return &cell[V]{
		id:        id,
		ctx:       ctx,
		committed: initial,
		reserved:  initial.Version,
	}
}

// prepare returns the snapshot a provider rendering value exposes to its
// descendants.
func (c *cell[V]) prepare(value V) VersionedValue[V] {
	if c.reserved > c.committed.Version {
		return VersionedValue[V]{Value: value, Version: c.reserved}
	}
	if vango.Identical(value, c.committed.Value) {
		return c.committed
	}
	return VersionedValue[V]{Value: value, Version: c.committed.Version + 1}
}

// publish commits snap and notifies listeners at normal priority, or at the
// priority of the update whose reservation it fills. A snapshot that is not
// newer than the committed one is a bail-out.
func (c *cell[V]) publish(snap VersionedValue[V]) {
	if c.disposed {
		return
	}
	if snap.Version <= c.committed.Version {
		if c.published {
			c.ctx.metrics.publishBailout(c.ctx.name)
		}
		c.published = true
		return
	}
	c.published = true

	_, span := c.ctx.tracer.Start(context.Background(), "ctxsel.publish",
		trace.WithAttributes(
			attribute.String("ctxsel.context", c.ctx.name),
			attribute.String("ctxsel.provider", c.id),
			attribute.Int64("ctxsel.version", snap.Version),
		))
	defer span.End()

	p := c.fill(snap.Version, vango.NormalPriority)
	c.committed = snap
	n := c.notify(signal[V]{version: snap.Version, value: snap.Value, hasValue: true}, p)
	span.SetAttributes(attribute.Int("ctxsel.listeners", n))

	c.ctx.metrics.publish(c.ctx.name)
	c.ctx.registry.record(c.event(EventPublish))
}

// reserve hands out the next version for an update running at p.
func (c *cell[V]) reserve(p vango.Priority) int64 {
	c.reserved = max(c.reserved, c.committed.Version) + 1
	c.boost = max(c.boost, p)
	return c.reserved
}

// fill returns the priority to notify a commit of version at. Committing
// the outstanding reservation clears its boost.
func (c *cell[V]) fill(version int64, p vango.Priority) vango.Priority {
	if c.reserved <= c.committed.Version {
		return p
	}
	p = max(p, c.boost)
	if version >= c.reserved {
		c.boost = 0
	}
	return p
}

// resolve commits a reservation no publish filled, keeping the value.
func (c *cell[V]) resolve(version int64, p vango.Priority) {
	if c.disposed || c.committed.Version >= version {
		return
	}
	p = c.fill(version, p)
	c.committed.Version = version
	c.notify(signal[V]{version: version, value: c.committed.Value, hasValue: true}, p)
	c.ctx.registry.record(c.event(EventResolve))
}

// notify calls every active listener inside one batch, so roots touched by
// the listeners flush after all of them ran.
func (c *cell[V]) notify(sig signal[V], p vango.Priority) int {
	ls := c.listeners.snapshot()
	vango.RunWithPriority(p, func() {
		vango.Batch(func() {
			for _, l := range ls {
				if l.active {
					l.fn(sig)
				}
			}
		})
	})
	c.ctx.metrics.notified(c.ctx.name, len(ls))
	return len(ls)
}

func (c *cell[V]) subscribe(fn func(signal[V])) *listener[V] {
	l := c.listeners.add(fn)
	c.ctx.metrics.listenerAdded(c.ctx.name)
	return l
}

func (c *cell[V]) unsubscribe(l *listener[V]) {
	if !l.active {
		return
	}
	c.listeners.remove(l)
	c.ctx.metrics.listenerRemoved(c.ctx.name)
}

// mount registers the cell with the context's registry.
func (c *cell[V]) mount() {
	c.ctx.registry.record(c.event(EventMount))
}

// dispose releases the listener set. Called when the provider unmounts,
// after every descendant subscription was removed.
func (c *cell[V]) dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	for range c.listeners.len() {
		c.ctx.metrics.listenerRemoved(c.ctx.name)
	}
	c.listeners.clear()
	c.ctx.registry.record(c.event(EventUnmount))
}

func (c *cell[V]) event(kind EventKind) Event {
	return Event{
		Kind:       kind,
		Context:    c.ctx.name,
		ProviderID: c.id,
		Version:    c.committed.Version,
		Listeners:  c.listeners.len(),
	}
}
