package ctxsel

import (
	"github.com/google/uuid"

	"github.com/vango-dev/ctxsel/pkg/vango"
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

// Provider publishes value to every subscription rendered under children.
//
// Each provider instance owns a versioned cell. A render exposes the value
// to descendants rendered in the same pass together with the version it
// will commit under; the commit stamps that version and notifies the
// listeners. A value identical to the committed one keeps the version and
// notifies no one.
func (c *Context[V]) Provider(value V, children ...any) *vdom.VNode {
	if !c.valid() {
		panic(&ProtocolError{Op: "Provider", Context: c.Name()})
	}
	return &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: &provider[V]{ctx: c, value: value, children: children},
	}
}

type provider[V any] struct {
	ctx      *Context[V]
	value    V
	children []any
}

type providerState[V any] struct {
	cell   *cell[V]
	update UpdateFunc
}

// Render implements vdom.Component.
func (p *provider[V]) Render() *vdom.VNode {
	c := p.ctx
	st := vango.UseSlot(func() *providerState[V] {
		cl := newCell(c, uuid.NewString(), VersionedValue[V]{Value: p.value, Version: 0})
		return &providerState[V]{
			cell: cl,
			update: func(thunk func(), opts ...UpdateOption) {
				cl.update(thunk, opts)
			},
		}
	})

	snap := st.cell.prepare(p.value)
	vango.SetContext(c.key, &payload[V]{cell: st.cell, snapshot: snap, update: st.update})

	vango.UseLayoutEffect(func() vango.Cleanup {
		st.cell.mount()
		return st.cell.dispose
	}, vango.Deps{})
	vango.UseLayoutEffect(func() vango.Cleanup {
		st.cell.publish(snap)
		return nil
	}, nil)

	return vdom.Fragment(p.children...)
}
