package main

import (
	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/vango"
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

type counts struct {
	Count1, Count2 int
}

// store is the shared value of the counter demo: the counts and the
// stable setter of the component owning them.
type store struct {
	counts
	set func(func(counts) counts)
}

func inc1(c counts) counts { c.Count1++; return c }
func inc2(c counts) counts { c.Count2++; return c }

func pick1(c counts) int { return c.Count1 }
func pick2(c counts) int { return c.Count2 }

func selectSet(s store) func(func(counts) counts) { return s.set }

// demo is the two-counter application shared by run, tui and serve. Each
// counter subscribes to its own count, so clicking one never re-renders
// the other.
type demo struct {
	ctx  *ctxsel.Context[store]
	root *vango.Root

	// renders counts render invocations per counter.
	renders map[string]int

	update ctxsel.UpdateFunc
	set    func(func(counts) counts)
}

func newDemo(e *env, name string) (*demo, error) {
	d := &demo{
		ctx:     ctxsel.CreateContext(store{}, e.contextOptions(name)...),
		root:    e.newRoot(),
		renders: make(map[string]int),
	}

	updater := vdom.Func(func() *vdom.VNode {
		d.update = ctxsel.UseContextUpdate(d.ctx)
		return nil
	})
	c1 := d.counter("count1", pick1, inc1)
	c2 := d.counter("count2", pick2, inc2)

	app := vdom.Func(func() *vdom.VNode {
		c, set := vango.UseState(counts{})
		d.set = set
		return d.ctx.Provider(store{counts: c, set: set},
			vdom.Section(c1, c2),
			updater,
		)
	})

	if err := d.root.Render(app); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *demo) counter(id string, pick func(counts) int, bump func(counts) counts) vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		n := ctxsel.UseContextSelector(d.ctx, func(s store) int { return pick(s.counts) })
		set := ctxsel.UseContextSelector(d.ctx, selectSet)
		d.renders[id]++
		return vdom.Div(
			vdom.Span(vdom.TestID(id), vdom.Textf("%d", n)),
			vdom.Button(vdom.TestID(id+"-inc"), vdom.OnClick(func() { set(bump) })),
		)
	})
}

// click presses the increment button of a counter.
func (d *demo) click(id string) error {
	return d.root.Click(id + "-inc")
}

// tick increments the first counter through the context's update
// function, the way a background producer would.
func (d *demo) tick() error {
	return d.root.Dispatch(func() {
		d.update(func() { d.set(inc1) }, ctxsel.WithUpdateName("ctxsel.tick"))
	})
}

// setCount2 replaces the second count through the update function.
func (d *demo) setCount2(n int) error {
	return d.root.Dispatch(func() {
		d.update(func() {
			d.set(func(c counts) counts { c.Count2 = n; return c })
		})
	})
}

func (d *demo) value(id string) string {
	s, _ := d.root.FindText(id)
	return s
}
