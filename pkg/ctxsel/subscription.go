package ctxsel

import (
	"github.com/vango-dev/ctxsel/pkg/vango"
)

// UseContextSelector returns selector applied to the value of the nearest
// provider of c, and re-renders the component only when that selection
// changes identity (see vango.Identical).
//
// Every subscription rendered in one pass under the same provider reads
// the same version. A selector that panics keeps the previous selection;
// only a subscription's first render lets the *TransientSelectorError
// escape.
//
// This is a hook-like API and MUST be called unconditionally during render.
//
// Example:
//
//	count1 := ctxsel.UseContextSelector(StoreContext, func(s Store) int {
//	    return s.Count1
//	})
func UseContextSelector[V, S any](c *Context[V], selector func(V) S) S {
	pl := c.lookup("UseContextSelector")
	return useSubscription(c, pl, selector).selected
}

// UseContext returns the whole value of the nearest provider of c and
// re-renders the component whenever a different value is published.
//
// This is a hook-like API and MUST be called unconditionally during render.
func UseContext[V any](c *Context[V]) V {
	pl := c.lookup("UseContext")
	return useSubscription(c, pl, identity[V]).selected
}

func identity[V any](v V) V { return v }

// subState is a selection together with the value and version it was
// computed from.
type subState[V, S any] struct {
	value    V
	selected S
	version  int64
}

// subscription is the per-component state behind UseContextSelector.
type subscription[V, S any] struct {
	ctx  *Context[V]
	inst *vango.Instance

	// cell, selector and state are what the last commit left behind;
	// listener callbacks advance state between renders.
	cell     *cell[V]
	selector func(V) S
	state    subState[V, S]
	hasState bool

	// last selector call, so an identical input returns the identical
	// selection.
	memoIn  V
	memoSel func(V) S
	memoOut S
	memoOK  bool
}

func useSubscription[V, S any](c *Context[V], pl *payload[V], selector func(V) S) subState[V, S] {
	inst := vango.UseInstance()
	sub := vango.UseSlot(func() *subscription[V, S] {
		return &subscription[V, S]{ctx: c, inst: inst}
	})

	cand := sub.render(pl, selector)

	vango.UseLayoutEffect(func() vango.Cleanup {
		sub.commit(pl.cell, cand, selector)
		return nil
	}, nil)
	vango.UseLayoutEffect(func() vango.Cleanup {
		return sub.subscribe(pl.cell)
	}, vango.Deps{pl.cell})

	return cand
}

// render computes the selection for this render without changing the
// committed state. It reads the provider's snapshot, unless a listener
// already committed a newer version.
func (s *subscription[V, S]) render(pl *payload[V], selector func(V) S) subState[V, S] {
	same := s.hasState && s.cell == pl.cell

	base := pl.snapshot
	if same && s.state.version > base.Version {
		base = VersionedValue[V]{Value: s.state.value, Version: s.state.version}
	}

	selected, err := s.selectFrom(base.Value, selector)
	if err != nil {
		if !same {
			panic(err)
		}
		s.ctx.metrics.selectorError(s.ctx.name)
		s.ctx.logger.Debug("selector panicked during render",
			"context", s.ctx.name, "version", base.Version, "error", err)
		return s.state
	}

	if same && vango.Identical(selected, s.state.selected) {
		selected = s.state.selected
	}
	return subState[V, S]{value: base.Value, selected: selected, version: base.Version}
}

// commit adopts the state of a committed render, unless a listener moved
// the state past it.
func (s *subscription[V, S]) commit(c *cell[V], cand subState[V, S], selector func(V) S) {
	s.selector = selector
	if s.cell != c {
		s.cell = c
		s.state = cand
		s.hasState = true
		return
	}
	if !s.hasState || cand.version >= s.state.version {
		s.state = cand
		s.hasState = true
	}
}

// subscribe registers the listener after the first commit and catches up
// with a version committed since the render.
func (s *subscription[V, S]) subscribe(c *cell[V]) vango.Cleanup {
	l := c.subscribe(s.onSignal)
	if c.committed.Version > s.state.version {
		s.onSignal(signal[V]{version: c.committed.Version, value: c.committed.Value, hasValue: true})
	}
	return func() {
		c.unsubscribe(l)
	}
}

// onSignal decides whether a notification needs a re-render.
//
// Signals without a value only announce a version; the publish or
// resolve that commits it carries the value. Value signals not newer than
// the state are stale and dropped.
func (s *subscription[V, S]) onSignal(sig signal[V]) {
	if s.inst.Disposed() || !sig.hasValue {
		return
	}
	if s.hasState && sig.version <= s.state.version {
		return
	}

	selected, err := s.selectFrom(sig.value, s.selector)
	if err != nil {
		s.ctx.metrics.selectorError(s.ctx.name)
		s.ctx.logger.Debug("selector panicked during notification",
			"context", s.ctx.name, "version", sig.version, "error", err)
		return
	}

	if vango.Identical(selected, s.state.selected) {
		s.state.value = sig.value
		s.state.version = sig.version
		s.ctx.metrics.selectionBailout(s.ctx.name)
		return
	}

	s.state = subState[V, S]{value: sig.value, selected: selected, version: sig.version}
	s.ctx.metrics.rerender(s.ctx.name)
	s.inst.MarkDirty()
}

// selectFrom applies selector to value, recovering panics as a
// *TransientSelectorError.
func (s *subscription[V, S]) selectFrom(value V, selector func(V) S) (out S, err error) {
	if s.memoOK && vango.Identical(value, s.memoIn) && vango.Identical(selector, s.memoSel) {
		return s.memoOut, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &TransientSelectorError{Context: s.ctx.name, Value: r}
		}
	}()

	out = selector(value)
	s.memoIn, s.memoSel, s.memoOut, s.memoOK = value, selector, out, true
	return out, nil
}
