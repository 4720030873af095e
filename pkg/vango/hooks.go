package vango

// mustInstance returns the instance being rendered, tracking the hook call.
// Hooks called outside render panic with a *HookError.
func mustInstance(ht HookType) *Instance {
	inst := getCurrentInstance()
	if inst == nil {
		panic(&HookError{Hook: ht})
	}
	inst.owner.TrackHook(ht)
	return inst
}

// Ref holds a mutable value that survives re-renders.
// Writing a Ref does not schedule a render.
type Ref[T any] struct {
	value T
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.value = value
}

// UseRef returns the component's Ref for this hook position, created with
// initial on the first render.
//
// This is a hook-like API and MUST be called unconditionally during render.
func UseRef[T any](initial T) *Ref[T] {
	inst := mustInstance(HookRef)
	if slot := inst.owner.UseHookSlot(); slot != nil {
		return slot.(*Ref[T])
	}
	r := &Ref[T]{value: initial}
	inst.owner.SetHookSlot(r)
	return r
}

type stateSlot[T any] struct {
	value T
	set   func(func(T) T)
}

// UseState returns the component's state value and a stable setter.
// The setter applies the update immediately and schedules the component
// at the ambient priority, unless the result is identical to the current
// value.
//
// This is a hook-like API and MUST be called unconditionally during render.
//
// Example:
//
//	count, setCount := vango.UseState(0)
//	return vdom.Button(vdom.OnClick(func() {
//	    setCount(func(n int) int { return n + 1 })
//	}), vdom.Textf("%d", count))
func UseState[T any](initial T) (T, func(func(T) T)) {
	inst := mustInstance(HookState)
	if slot := inst.owner.UseHookSlot(); slot != nil {
		s := slot.(*stateSlot[T])
		return s.value, s.set
	}

	s := &stateSlot[T]{value: initial}
	s.set = func(update func(T) T) {
		next := update(s.value)
		if Identical(next, s.value) {
			return
		}
		s.value = next
		inst.MarkDirty()
	}
	inst.owner.SetHookSlot(s)
	return s.value, s.set
}

type memoSlot[T any] struct {
	value T
	deps  Deps
}

// UseMemo returns compute's result, recomputing only when deps change.
//
// This is a hook-like API and MUST be called unconditionally during render.
func UseMemo[T any](compute func() T, deps Deps) T {
	inst := mustInstance(HookMemo)
	if slot := inst.owner.UseHookSlot(); slot != nil {
		m := slot.(*memoSlot[T])
		if !depsEqual(m.deps, deps) {
			m.value = compute()
			m.deps = deps
		}
		return m.value
	}
	m := &memoSlot[T]{value: compute(), deps: deps}
	inst.owner.SetHookSlot(m)
	return m.value
}

// UseSlot returns a value stored in the component's hook slot, created by
// init on the first render. It backs hooks built outside this package.
//
// This is a hook-like API and MUST be called unconditionally during render.
func UseSlot[T any](init func() T) T {
	inst := mustInstance(HookSlot)
	if slot := inst.owner.UseHookSlot(); slot != nil {
		return slot.(T)
	}
	v := init()
	inst.owner.SetHookSlot(v)
	return v
}

// UseInstance returns the instance being rendered.
func UseInstance() *Instance {
	inst := getCurrentInstance()
	if inst == nil {
		panic(&HookError{Hook: HookSlot})
	}
	return inst
}

// SetContext sets a context value for the current component scope.
// The value is visible to the component itself and all descendants via
// GetContext.
func SetContext(key, value any) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(key, value)
	}
}

// GetContext retrieves a context value from the nearest provider in the
// hierarchy. Returns nil if no value is found.
func GetContext(key any) any {
	if owner := getCurrentOwner(); owner != nil {
		return owner.GetValue(key)
	}
	return nil
}
