// Package ctxsel provides selector-enabled contexts for vango components.
//
// Many components can read different slices of one frequently updated
// value. A component re-renders only when the slice it selects changes
// identity, and every component rendered in one pass reads the same
// version of the value.
//
// # Providing and selecting
//
//	var Store = ctxsel.CreateContext(State{}, ctxsel.WithName("store"))
//
//	App := vdom.Func(func() *vdom.VNode {
//	    st, set := vango.UseState(State{})
//	    return Store.Provider(Value{State: st, Set: set}, Counter1, Counter2)
//	})
//
//	Counter1 := vdom.Func(func() *vdom.VNode {
//	    n := ctxsel.UseContextSelector(Store, func(v Value) int { return v.Count1 })
//	    return vdom.Textf("%d", n)
//	})
//
// # Versions
//
// Each provider owns a cell holding the committed value, a version and the
// subscription listeners. A provider render exposes the version its value
// will commit under to the subscriptions rendered below it in the same
// pass. The commit stamps that version and notifies the listeners, which
// recompute their selection and request a render only when it changed.
// Publishing an identical value neither bumps the version nor notifies.
//
// # Updates
//
// UseContextUpdate returns a function that reserves one version, tells the
// subscriptions a change is coming, and runs a thunk in a batch. The
// provider's next publish takes the reserved version.
//
// # Bridges
//
// UseBridgeValue and BridgeProvider carry a provider's protocol state into
// a second root, so subscriptions there register with the same cell.
//
// # Errors
//
// Operations on a Context not built by CreateContext panic with a
// *ProtocolError. Selector panics are recovered as *TransientSelectorError
// and keep the previous selection.
package ctxsel
