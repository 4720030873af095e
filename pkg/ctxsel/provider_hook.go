package ctxsel

import (
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

// ProviderFromHook pairs a provider that computes its value with a hook
// and the selector hooks reading that value.
//
// Example:
//
//	var Counter = ctxsel.CreateProviderFromHook(func(initial int) CounterState {
//	    n, set := vango.UseState(initial)
//	    return CounterState{N: n, Set: set}
//	}, ctxsel.WithName("counter"))
//
//	// In a parent:
//	Counter.Provider(0, Display, Buttons)
//
//	// In Display:
//	n := ctxsel.Select(Counter, func(s CounterState) int { return s.N })
type ProviderFromHook[P, H any] struct {
	ctx  *Context[hookValue[H]]
	hook func(P) H
}

// hookValue wraps the hook result; ok is false in the default value, which
// no provider published.
type hookValue[H any] struct {
	value H
	ok    bool
}

// CreateProviderFromHook creates a context whose provider runs hook with
// its props during its own render and publishes the result. Without a
// provider the hooks panic with a *MissingProviderError, unless
// WithHookDefault supplies a value of type H.
func CreateProviderFromHook[P, H any](hook func(P) H, opts ...ContextOption) *ProviderFromHook[P, H] {
	var cfg ContextConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var def hookValue[H]
	if cfg.hasHookDefault {
		v, ok := cfg.hookDefault.(H)
		if !ok && cfg.hookDefault != nil {
			panic(&ProtocolError{Op: "CreateProviderFromHook: WithHookDefault type mismatch", Context: cfg.Name})
		}
		def = hookValue[H]{value: v, ok: true}
	}

	return &ProviderFromHook[P, H]{
		ctx:  CreateContext(def, opts...),
		hook: hook,
	}
}

// Provider renders a component that calls the hook with props and
// provides its result to children.
func (p *ProviderFromHook[P, H]) Provider(props P, children ...any) *vdom.VNode {
	return &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: &hookProvider[P, H]{p: p, props: props, children: children},
	}
}

// UseUpdate returns the update function of the nearest provider of p.
//
// This is a hook-like API and MUST be called unconditionally during render.
func (p *ProviderFromHook[P, H]) UseUpdate() UpdateFunc {
	return UseContextUpdate(p.ctx)
}

// Use returns the whole hook result. It panics with a
// *MissingProviderError when no provider is above the component and no
// default was set.
//
// This is a hook-like API and MUST be called unconditionally during render.
func (p *ProviderFromHook[P, H]) Use() H {
	return Select(p, identity[H])
}

type hookProvider[P, H any] struct {
	p        *ProviderFromHook[P, H]
	props    P
	children []any
}

// Render implements vdom.Component.
func (h *hookProvider[P, H]) Render() *vdom.VNode {
	value := h.p.hook(h.props)
	return h.p.ctx.Provider(hookValue[H]{value: value, ok: true}, h.children...)
}

// selection carries a selected value and whether a provider was found.
type selection[S any] struct {
	value S
	ok    bool
}

// Select returns selector applied to the hook result of the nearest
// provider of p, or to the WithHookDefault value. It panics with a
// *MissingProviderError when there is neither.
//
// This is a hook-like API and MUST be called unconditionally during render.
func Select[P, H, S any](p *ProviderFromHook[P, H], selector func(H) S) S {
	sel := UseContextSelector(p.ctx, func(hv hookValue[H]) selection[S] {
		if !hv.ok {
			return selection[S]{}
		}
		return selection[S]{value: selector(hv.value), ok: true}
	})
	if !sel.ok {
		panic(&MissingProviderError{Context: p.ctx.name})
	}
	return sel.value
}
