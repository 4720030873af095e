package vango

import (
	"reflect"

	"github.com/vango-dev/ctxsel/pkg/vdom"
)

// Instance is a mounted component with its state.
// It holds the component's Owner (hook slots, context values), its
// position in the instance tree, and its last rendered output.
type Instance struct {
	id    uint64
	root  *Root
	owner *Owner

	parent   *Instance
	children []*Instance
	depth    int
	key      string

	comp vdom.Component

	// tree is the last rendered output, with KindComponent nodes unresolved.
	tree *vdom.VNode

	effects []*effect

	// dirty is set when the instance needs re-rendering; lane is the
	// highest priority it was marked at.
	dirty  bool
	lane   Priority
	queued bool

	mounted     bool
	disposed    bool
	renderCount int
}

// ID returns the unique identifier for this instance.
func (i *Instance) ID() uint64 {
	return i.id
}

// Root returns the root the instance is mounted in.
func (i *Instance) Root() *Root {
	return i.root
}

// Owner returns the instance's Owner.
func (i *Instance) Owner() *Owner {
	return i.owner
}

// Mounted reports whether the instance has committed at least once and
// has not been disposed.
func (i *Instance) Mounted() bool {
	return i.mounted && !i.disposed
}

// Disposed reports whether the instance was unmounted.
func (i *Instance) Disposed() bool {
	return i.disposed
}

// RenderCount returns how many renders were committed for this instance.
// Strict-mode double invocations count once.
func (i *Instance) RenderCount() int {
	return i.renderCount
}

// MarkDirty schedules the instance for re-rendering at the ambient priority.
// Calls on a disposed instance are no-ops.
func (i *Instance) MarkDirty() {
	if i.disposed {
		return
	}
	p := CurrentPriority()
	if !i.dirty || p > i.lane {
		i.lane = p
	}
	i.dirty = true
	i.root.schedule(i)
}

// render invokes the component, twice in strict mode, and returns the
// output of the last invocation.
func (i *Instance) render() *vdom.VNode {
	passes := 1
	if i.root.cfg.StrictMode {
		passes = 2
	}

	var tree *vdom.VNode
	for n := 0; n < passes; n++ {
		tree = i.renderOnce()
	}
	i.renderCount++
	return tree
}

func (i *Instance) renderOnce() *vdom.VNode {
	prevInst := setCurrentInstance(i)
	prevOwner := setCurrentOwner(i.owner)
	defer func() {
		setCurrentOwner(prevOwner)
		setCurrentInstance(prevInst)
	}()

	i.owner.StartRender()
	tree := i.comp.Render()
	i.owner.EndRender()
	return tree
}

// dispose unmounts the instance and its subtree, children first.
func (i *Instance) dispose() {
	if i.disposed {
		return
	}
	for n := len(i.children) - 1; n >= 0; n-- {
		i.children[n].dispose()
	}
	i.children = nil
	i.disposed = true
	i.dirty = false

	for _, e := range i.effects {
		e.dispose()
	}
	i.owner.Dispose()
}

// sameComponentType reports whether b can reuse the instance rendered for a.
func sameComponentType(a, b vdom.Component) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}
