package ctxsel

import (
	"github.com/vango-dev/ctxsel/pkg/vango"
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

type counts struct {
	Count1, Count2 int
}

// store is the context value of most tests: the counts plus the stable
// state setter of the component that owns them.
type store struct {
	counts
	set func(func(counts) counts)
}

type setter = func(func(counts) counts)

func inc1(c counts) counts { c.Count1++; return c }
func inc2(c counts) counts { c.Count2++; return c }

func incInt(n int) int { return n + 1 }

func selectSet(s store) setter { return s.set }

// storeApp owns the counts in its state and provides them to children.
func storeApp(ctx *Context[store], children ...any) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		c, set := vango.UseState(counts{})
		return ctx.Provider(store{counts: c, set: set}, children...)
	})
}

// counter displays one count with an increment button and logs the value
// seen by every render invocation.
func counter(ctx *Context[store], id string, pick func(counts) int, bump func(counts) counts, log *[]int) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		n := UseContextSelector(ctx, func(s store) int { return pick(s.counts) })
		set := UseContextSelector(ctx, selectSet)
		if log != nil {
			*log = append(*log, n)
		}
		return vdom.Div(
			vdom.Span(vdom.TestID(id+"-value"), vdom.Textf("%d", n)),
			vdom.Button(vdom.TestID(id+"-inc"), vdom.OnClick(func() { set(bump) })),
		)
	})
}

func pick1(c counts) int { return c.Count1 }
func pick2(c counts) int { return c.Count2 }

// nodes converts components to render arguments.
func nodes(cs ...vdom.Component) []any {
	out := make([]any, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}
