package vango

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vango-dev/ctxsel/pkg/vdom"
)

// Root is an independently rooted component tree.
//
// A Root renders on the goroutine that drives it. Work is scheduled by
// Instance.MarkDirty and flushed in render/commit passes:
//
//  1. The highest pending priority lane is taken from the queue.
//  2. Its instances render parents first. A parent render re-renders a
//     child whose component value changed and skips one that received the
//     same component value again (unless the child itself is dirty).
//  3. The commit disposes removed instances, then runs layout effects of
//     every rendered instance, children before parents.
//  4. Steps 1-3 repeat while work is queued, then passive effects run.
//
// Outside a Batch, scheduling work flushes immediately.
type Root struct {
	cfg   RootConfig
	owner *Owner
	top   *Instance

	queue      []*Instance
	committing []*Instance
	deletions  []*Instance
	passive    []*effect

	flushing  bool
	unmounted bool
	err       error
}

// NewRoot creates an empty root.
func NewRoot(opts ...RootOption) *Root {
	cfg := defaultRootConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Root{
		cfg:   cfg,
		owner: NewOwner(nil),
	}
}

// ID returns the root identifier.
func (r *Root) ID() string {
	return r.cfg.ID
}

// Config returns the root configuration.
func (r *Root) Config() RootConfig {
	return r.cfg
}

// Render mounts c as the root component, or replaces the mounted one, and
// flushes.
func (r *Root) Render(c vdom.Component) error {
	if r.unmounted {
		return ErrUnmounted
	}
	if r.top == nil || !sameComponentType(r.top.comp, c) {
		if r.top != nil {
			r.deletions = append(r.deletions, r.top)
		}
		r.top = r.newInstance(nil, "", c)
	}
	r.top.comp = c
	Batch(r.top.MarkDirty)
	return r.takeErr()
}

// Dispatch runs fn as an event handler: at user-blocking priority, inside
// a batch. It returns the error of the resulting flush, if any.
func (r *Root) Dispatch(fn func()) error {
	RunWithPriority(UserBlockingPriority, func() {
		Batch(fn)
	})
	return r.takeErr()
}

// Click dispatches the click handler of the committed node with the given
// test ID.
func (r *Root) Click(testID string) error {
	node := vdom.FindByTestID(r.Tree(), testID)
	if node == nil {
		return fmt.Errorf("%w: %q not found", ErrNoTarget, testID)
	}
	handler, ok := node.Handler("click").(func())
	if !ok {
		return fmt.Errorf("%w: %q has no click handler", ErrNoTarget, testID)
	}
	return r.Dispatch(handler)
}

// Tree returns the committed tree with child components resolved into
// their rendered output.
func (r *Root) Tree() *vdom.VNode {
	if r.top == nil {
		return nil
	}
	return resolveInstance(r.top)
}

// Text returns the text content of the committed tree.
func (r *Root) Text() string {
	return vdom.TextContent(r.Tree())
}

// FindText returns the text content of the node with the given test ID,
// and whether it exists.
func (r *Root) FindText(testID string) (string, bool) {
	node := vdom.FindByTestID(r.Tree(), testID)
	if node == nil {
		return "", false
	}
	return vdom.TextContent(node), true
}

// Unmount disposes every instance and the root owner.
func (r *Root) Unmount() {
	if r.unmounted {
		return
	}
	r.unmounted = true
	if r.top != nil {
		r.top.dispose()
		r.top = nil
	}
	r.queue = nil
	r.committing = nil
	r.deletions = nil
	r.passive = nil
	r.owner.Dispose()
}

func (r *Root) newInstance(parent *Instance, key string, c vdom.Component) *Instance {
	parentOwner := r.owner
	depth := 0
	if parent != nil {
		parentOwner = parent.owner
		depth = parent.depth + 1
	}
	return &Instance{
		id:     nextID(),
		root:   r,
		owner:  NewOwner(parentOwner),
		parent: parent,
		depth:  depth,
		key:    key,
		comp:   c,
	}
}

// schedule queues inst and flushes unless a flush or batch is in progress.
func (r *Root) schedule(inst *Instance) {
	if r.unmounted {
		return
	}
	if !inst.queued {
		inst.queued = true
		r.queue = append(r.queue, inst)
	}
	if r.flushing {
		return
	}
	if getBatchDepth() > 0 {
		queuePendingRoot(r)
		return
	}
	_ = r.Flush()
}

// Flush renders and commits all queued work. Render panics abort the flush
// and are returned as *RenderError.
func (r *Root) Flush() (err error) {
	if r.flushing || r.unmounted {
		return nil
	}
	r.flushing = true
	enterFlush()
	defer func() {
		r.flushing = false
		settled := exitFlush()
		if rec := recover(); rec != nil {
			r.reset()
			err = &RenderError{Value: rec}
		}
		if err != nil {
			r.err = err
		}
		if settled {
			runAfterBatch()
		}
	}()

	passes, rendered := 0, 0
	for {
		for {
			lane := r.takeLane()
			if lane == nil {
				break
			}
			passes++
			if passes > r.cfg.MaxFlushPasses {
				r.reset()
				r.cfg.Logger.Error("flush pass limit exceeded",
					"root", r.cfg.ID, "passes", r.cfg.MaxFlushPasses)
				return ErrFlushLimit
			}
			for _, inst := range lane {
				if inst.dirty && !inst.disposed {
					rendered += r.renderInstance(inst)
				}
			}
			r.commit()
		}
		if !r.runPassive() {
			break
		}
	}

	if passes > 0 {
		r.cfg.Logger.Debug("flush", "root", r.cfg.ID, "passes", passes, "rendered", rendered)
	}
	return nil
}

func (r *Root) takeErr() error {
	err := r.err
	r.err = nil
	return err
}

func (r *Root) reset() {
	for _, inst := range r.queue {
		inst.queued = false
		inst.dirty = false
	}
	r.queue = nil
	r.committing = nil
	r.passive = nil
}

// takeLane removes and returns the queued instances of the highest pending
// priority, shallowest first.
func (r *Root) takeLane() []*Instance {
	var top Priority
	for _, inst := range r.queue {
		if inst.dirty && !inst.disposed && inst.lane > top {
			top = inst.lane
		}
	}
	if top == 0 {
		for _, inst := range r.queue {
			inst.queued = false
		}
		r.queue = r.queue[:0]
		return nil
	}

	var lane, rest []*Instance
	for _, inst := range r.queue {
		switch {
		case !inst.dirty || inst.disposed:
			inst.queued = false
		case inst.lane == top:
			inst.queued = false
			lane = append(lane, inst)
		default:
			rest = append(rest, inst)
		}
	}
	r.queue = rest

	sort.SliceStable(lane, func(a, b int) bool {
		return lane[a].depth < lane[b].depth
	})
	return lane
}

// renderInstance renders inst and reconciles its children. It returns the
// number of instances rendered.
func (r *Root) renderInstance(inst *Instance) int {
	inst.dirty = false
	inst.tree = inst.render()
	n := 1 + r.reconcile(inst)
	r.committing = append(r.committing, inst)
	return n
}

// reconcile matches the component nodes of inst's output against its
// current children by key, or by position among component nodes.
func (r *Root) reconcile(inst *Instance) int {
	var slots []*vdom.VNode
	collectComponents(inst.tree, &slots)

	old := make(map[string]*Instance, len(inst.children))
	for _, c := range inst.children {
		old[c.key] = c
	}

	rendered := 0
	next := make([]*Instance, 0, len(slots))
	for idx, node := range slots {
		key := node.Key
		if key == "" {
			key = "#" + strconv.Itoa(idx)
		}

		child, ok := old[key]
		if ok && sameComponentType(child.comp, node.Comp) {
			delete(old, key)
			if child.dirty || !Identical(child.comp, node.Comp) {
				child.comp = node.Comp
				rendered += r.renderInstance(child)
			}
		} else {
			child = r.newInstance(inst, key, node.Comp)
			rendered += r.renderInstance(child)
		}
		next = append(next, child)
	}

	for _, c := range inst.children {
		if old[c.key] == c {
			r.deletions = append(r.deletions, c)
		}
	}
	inst.children = next
	return rendered
}

// commit disposes removed instances and runs layout effects.
func (r *Root) commit() {
	deletions := r.deletions
	r.deletions = nil
	for _, inst := range deletions {
		inst.dispose()
	}

	committing := r.committing
	r.committing = nil
	for _, inst := range committing {
		if inst.disposed {
			continue
		}
		inst.mounted = true
		for _, e := range inst.effects {
			if !e.pending {
				continue
			}
			if e.layout && !r.cfg.ServerSide {
				e.run()
				continue
			}
			if !e.queued {
				e.queued = true
				r.passive = append(r.passive, e)
			}
		}
	}
}

// runPassive runs queued passive effects. It reports whether any ran.
func (r *Root) runPassive() bool {
	effects := r.passive
	r.passive = nil
	for _, e := range effects {
		e.run()
	}
	return len(effects) > 0
}

// collectComponents appends the KindComponent nodes under n in document
// order, without descending into them.
func collectComponents(n *vdom.VNode, out *[]*vdom.VNode) {
	if n == nil {
		return
	}
	if n.Kind == vdom.KindComponent {
		*out = append(*out, n)
		return
	}
	for _, c := range n.Children {
		collectComponents(c, out)
	}
}

func resolveInstance(inst *Instance) *vdom.VNode {
	idx := 0
	return resolveNode(inst.tree, inst.children, &idx)
}

func resolveNode(n *vdom.VNode, children []*Instance, idx *int) *vdom.VNode {
	if n == nil {
		return nil
	}
	if n.Kind == vdom.KindComponent {
		if *idx >= len(children) {
			return nil
		}
		child := children[*idx]
		*idx++
		return resolveInstance(child)
	}

	out := *n
	out.Children = make([]*vdom.VNode, 0, len(n.Children))
	for _, c := range n.Children {
		if rc := resolveNode(c, children, idx); rc != nil {
			out.Children = append(out.Children, rc)
		}
	}
	return &out
}

// RenderError wraps a panic raised while rendering.
type RenderError struct {
	Value any
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if err, ok := e.Value.(error); ok {
		return "vango: render failed: " + err.Error()
	}
	return fmt.Sprintf("vango: render failed: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *RenderError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
