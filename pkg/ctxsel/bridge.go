package ctxsel

import (
	"github.com/vango-dev/ctxsel/pkg/vango"
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

// BridgeValue is an opaque copy of a provider's protocol state: its cell,
// the snapshot visible to the bridging component, and its update function.
// The zero BridgeValue is invalid.
type BridgeValue[V any] struct {
	pl *payload[V]
}

// Valid reports whether b was returned by UseBridgeValue.
func (b BridgeValue[V]) Valid() bool {
	return b.pl != nil
}

// Snapshot returns the value and version b carries.
func (b BridgeValue[V]) Snapshot() VersionedValue[V] {
	if b.pl == nil {
		return VersionedValue[V]{Version: -1}
	}
	return b.pl.snapshot
}

// UseBridgeValue returns the protocol state of the nearest provider of c,
// to be republished with BridgeProvider under another root. The calling
// component re-renders whenever the provider publishes a new value.
//
// This is a hook-like API and MUST be called unconditionally during render.
//
// Example:
//
//	bridge := vdom.Func(func() *vdom.VNode {
//	    value := ctxsel.UseBridgeValue(StoreContext)
//	    vango.UseLayoutEffect(func() vango.Cleanup {
//	        _ = portal.Render(vdom.Func(func() *vdom.VNode {
//	            return ctxsel.BridgeProvider(StoreContext, value, Panel)
//	        }))
//	        return nil
//	    }, nil)
//	    return nil
//	})
func UseBridgeValue[V any](c *Context[V]) BridgeValue[V] {
	pl := c.lookup("UseBridgeValue")
	st := useSubscription(c, pl, identity[V])
	if st.version == pl.snapshot.Version {
		return BridgeValue[V]{pl: pl}
	}
	return BridgeValue[V]{pl: &payload[V]{
		cell:     pl.cell,
		snapshot: VersionedValue[V]{Value: st.value, Version: st.version},
		update:   pl.update,
	}}
}

// BridgeProvider republishes value to children without creating a cell of
// its own. Subscriptions under it register with the original provider's
// cell and follow the same protocol as subscriptions under the original.
func BridgeProvider[V any](c *Context[V], value BridgeValue[V], children ...any) *vdom.VNode {
	if !c.valid() {
		panic(&ProtocolError{Op: "BridgeProvider", Context: c.Name()})
	}
	if !value.Valid() || value.pl.cell.ctx != c {
		panic(&ProtocolError{Op: "BridgeProvider", Context: c.name})
	}
	return &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: &bridgeProvider[V]{ctx: c, value: value, children: children},
	}
}

type bridgeProvider[V any] struct {
	ctx      *Context[V]
	value    BridgeValue[V]
	children []any
}

// Render implements vdom.Component.
func (b *bridgeProvider[V]) Render() *vdom.VNode {
	vango.SetContext(b.ctx.key, b.value.pl)
	return vdom.Fragment(b.children...)
}
