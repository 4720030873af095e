package main

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/vango"
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

type scenario struct {
	name string
	desc string
	run  func(e *env) error
}

var scenarios = []scenario{
	{"counter", "two counters on one context; each re-renders only for its own count", runCounter},
	{"tearing", "parent prop and child selection agree on every render", runTearing},
	{"bridge", "a second root observes the same values through a bridge", runBridge},
	{"stale-props", "selectors indexing a shrinking list never fail the render", runStaleProps},
	{"update", "update calls bump the version exactly once each", runUpdate},
}

func runCounter(e *env) error {
	d, err := newDemo(e, "counter")
	if err != nil {
		return err
	}
	defer d.root.Unmount()

	report := func(step string) {
		info(e.out, "%-14s count1=%s (renders %d)  count2=%s (renders %d)",
			step, d.value("count1"), d.renders["count1"], d.value("count2"), d.renders["count2"])
	}
	report("mount")

	for _, id := range []string{"count1", "count1", "count2"} {
		other := "count2"
		if id == "count2" {
			other = "count1"
		}
		otherRenders := d.renders[other]
		if err := d.click(id); err != nil {
			return err
		}
		report("click " + id)
		if d.renders[other] != otherRenders {
			return fmt.Errorf("%s re-rendered for a change of %s", other, id)
		}
	}

	if d.value("count1") != "2" || d.value("count2") != "1" {
		return fmt.Errorf("unexpected counts %s/%s", d.value("count1"), d.value("count2"))
	}
	return nil
}

func runTearing(e *env) error {
	ctx := ctxsel.CreateContext(store{}, e.contextOptions("tearing")...)
	renders, violations := 0, 0

	child := func(prop int) vdom.Component {
		return vdom.Func(func() *vdom.VNode {
			sum := ctxsel.UseContextSelector(ctx, func(s store) int { return s.Count1 + prop })
			renders++
			if sum != 2*prop {
				violations++
			}
			return vdom.Span(vdom.TestID("sum"), vdom.Textf("%d", sum))
		})
	}
	parent := vdom.Func(func() *vdom.VNode {
		n := ctxsel.UseContextSelector(ctx, pickCount1)
		set := ctxsel.UseContextSelector(ctx, selectSet)
		return vdom.Div(
			child(n),
			vdom.Button(vdom.TestID("inc"), vdom.OnClick(func() { set(inc1) })),
		)
	})

	r := e.newRoot()
	defer r.Unmount()
	if err := r.Render(vdom.Func(func() *vdom.VNode {
		c, set := vango.UseState(counts{})
		return ctx.Provider(store{counts: c, set: set}, parent)
	})); err != nil {
		return err
	}

	for i := 0; i < 5; i++ {
		if err := r.Click("inc"); err != nil {
			return err
		}
	}

	sum, _ := r.FindText("sum")
	info(e.out, "child renders=%d violations=%d sum=%s", renders, violations, sum)
	if violations > 0 {
		return fmt.Errorf("%d renders saw a selection inconsistent with their props", violations)
	}
	return nil
}

func pickCount1(s store) int { return s.Count1 }

func runBridge(e *env) error {
	ctx := ctxsel.CreateContext(store{}, e.contextOptions("bridge")...)

	display := func(id string, bump func(counts) counts) vdom.Component {
		return vdom.Func(func() *vdom.VNode {
			v := ctxsel.UseContextSelector(ctx, func(s store) int { return s.Count1*10 + s.Count2 })
			set := ctxsel.UseContextSelector(ctx, selectSet)
			return vdom.Div(
				vdom.Span(vdom.TestID(id), vdom.Textf("%d", v)),
				vdom.Button(vdom.TestID(id+"-inc"), vdom.OnClick(func() { set(bump) })),
			)
		})
	}

	inner := display("inner", inc2)
	portal := e.newRoot()
	defer portal.Unmount()

	var bridgeErr error
	bridge := vdom.Func(func() *vdom.VNode {
		bv := ctxsel.UseBridgeValue(ctx)
		vango.UseLayoutEffect(func() vango.Cleanup {
			if err := portal.Render(vdom.Func(func() *vdom.VNode {
				return ctxsel.BridgeProvider(ctx, bv, inner)
			})); err != nil {
				bridgeErr = err
			}
			return nil
		}, nil)
		return nil
	})

	host := e.newRoot()
	defer host.Unmount()
	if err := host.Render(vdom.Func(func() *vdom.VNode {
		c, set := vango.UseState(counts{})
		return ctx.Provider(store{counts: c, set: set}, display("outer", inc1), bridge)
	})); err != nil {
		return err
	}

	steps := []struct {
		root *vango.Root
		id   string
	}{
		{host, "outer-inc"},
		{portal, "inner-inc"},
		{host, "outer-inc"},
	}
	for _, step := range steps {
		if err := step.root.Click(step.id); err != nil {
			return err
		}
		if bridgeErr != nil {
			return bridgeErr
		}
		outerText, _ := host.FindText("outer")
		innerText, _ := portal.FindText("inner")
		info(e.out, "click %-10s outer=%s inner=%s", step.id, outerText, innerText)
		if outerText != innerText {
			return fmt.Errorf("roots disagree: %s != %s", outerText, innerText)
		}
	}
	return nil
}

func runStaleProps(e *env) error {
	ctx := ctxsel.CreateContext([]string(nil), e.contextOptions("stale-props")...)

	item := func(idx int) vdom.Component {
		return vdom.Func(func() *vdom.VNode {
			label := ctxsel.UseContextSelector(ctx, func(items []string) string { return items[idx] })
			return vdom.Li(vdom.Text(label))
		})
	}
	list := vdom.Func(func() *vdom.VNode {
		n := ctxsel.UseContextSelector(ctx, func(items []string) int { return len(items) })
		children := make([]*vdom.VNode, n)
		for i := range n {
			children[i] = vdom.Keyed(strconv.Itoa(i), item(i))
		}
		return vdom.Ul(children)
	})

	var setItems func(func([]string) []string)
	r := e.newRoot()
	defer r.Unmount()
	if err := r.Render(vdom.Func(func() *vdom.VNode {
		items, set := vango.UseState([]string{"a", "b", "c", "d"})
		setItems = set
		return ctx.Provider(items, list)
	})); err != nil {
		return err
	}
	info(e.out, "mount   items=%q", r.Text())

	for range 4 {
		if err := r.Dispatch(func() {
			setItems(func(items []string) []string { return items[:len(items)-1] })
		}); err != nil {
			return err
		}
		info(e.out, "remove  items=%q", r.Text())
	}
	if r.Text() != "" {
		return fmt.Errorf("list not empty: %q", r.Text())
	}
	return nil
}

func runUpdate(e *env) error {
	d, err := newDemo(e, "update")
	if err != nil {
		return err
	}
	defer d.root.Unmount()

	version := func() (int64, error) {
		ci, err := e.registry.Context("update")
		if err != nil {
			return 0, err
		}
		if len(ci.Providers) != 1 {
			return 0, fmt.Errorf("expected one provider, got %d", len(ci.Providers))
		}
		return ci.Providers[0].Version, nil
	}

	steps := []struct {
		name  string
		calls int
		fn    func()
	}{
		{"update+set", 1, func() { d.update(func() { d.set(inc1) }) }},
		{"update no-op", 1, func() { d.update(func() {}) }},
		{"two in a batch", 2, func() {
			_ = d.root.Dispatch(func() {
				d.update(func() { d.set(inc1) })
				d.update(func() { d.set(inc2) })
			})
		}},
	}

	for _, step := range steps {
		before, err := version()
		if err != nil {
			return err
		}
		step.fn()
		after, err := version()
		if err != nil {
			return err
		}
		info(e.out, "%-15s version %d -> %d  count1=%s count2=%s",
			step.name, before, after, d.value("count1"), d.value("count2"))
		if after-before != int64(step.calls) {
			return fmt.Errorf("%s: version advanced by %d, want %d", step.name, after-before, step.calls)
		}
	}
	return nil
}
