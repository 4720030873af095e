package vango

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the instance unmounts.
type Cleanup func()

// effect is a hook-slot entry for a layout or passive effect.
type effect struct {
	fn      func() Cleanup
	deps    Deps
	cleanup Cleanup

	// layout marks effects that run in the commit phase, before passive
	// effects. On server-side roots they are deferred like passive ones.
	layout bool

	// pending is set during render when deps changed; the commit runs it.
	pending bool

	// queued is set while the effect sits in the root's passive queue.
	queued bool

	inst *Instance
}

// run executes the effect, running the previous cleanup first.
func (e *effect) run() {
	e.pending = false
	e.queued = false
	if e.inst.disposed {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.cleanup = e.fn()
}

// dispose runs the last cleanup, if any.
func (e *effect) dispose() {
	e.pending = false
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// UseLayoutEffect registers fn to run in the commit phase of the render
// that scheduled it, before the root runs passive effects. Layout effects
// run children before parents. fn re-runs after any render where deps
// changed; a nil deps re-runs it after every render, an empty Deps only
// after the first.
//
// This is a hook-like API and MUST be called unconditionally during render.
func UseLayoutEffect(fn func() Cleanup, deps Deps) {
	useEffect(HookLayoutEffect, fn, deps, true)
}

// UseEffect registers a passive effect. Passive effects run after every
// layout effect of the flush has run and the flush has settled.
//
// This is a hook-like API and MUST be called unconditionally during render.
func UseEffect(fn func() Cleanup, deps Deps) {
	useEffect(HookEffect, fn, deps, false)
}

func useEffect(ht HookType, fn func() Cleanup, deps Deps, layout bool) {
	inst := mustInstance(ht)

	if slot := inst.owner.UseHookSlot(); slot != nil {
		e := slot.(*effect)
		e.fn = fn
		if deps == nil || !depsEqual(e.deps, deps) {
			e.pending = true
			e.deps = deps
		}
		return
	}

	e := &effect{fn: fn, deps: deps, layout: layout, pending: true, inst: inst}
	inst.owner.SetHookSlot(e)
	inst.effects = append(inst.effects, e)
}
