// Package vango provides the component runtime that ctxsel runs on.
//
// Components are vdom.Component values. A Root mounts a component tree,
// renders it, and re-renders instances marked dirty:
//
//	root := vango.NewRoot(vango.WithStrictMode())
//	if err := root.Render(vdom.Func(App)); err != nil {
//	    log.Fatal(err)
//	}
//	_ = root.Click("increment")
//	fmt.Println(root.Text())
//
// # Hooks
//
// Hook state lives in the instance's Owner, indexed by call order:
//
//	count, setCount := vango.UseState(0)
//	ref := vango.UseRef[*vdom.VNode](nil)
//	vango.UseLayoutEffect(func() vango.Cleanup { ... }, vango.Deps{count})
//
// Hooks MUST be called unconditionally during render. With DebugMode set,
// a change in hook order between renders panics.
//
// # Scheduling
//
// Instance.MarkDirty queues a render at the ambient priority
// (CurrentPriority, set with RunWithPriority). A flush renders the highest
// priority lane first, parents before children, then commits: removed
// instances are disposed and layout effects run children before parents.
// Flushing repeats while layout effects schedule more work, bounded by
// RootConfig.MaxFlushPasses, then passive effects run.
//
// Outside Batch, MarkDirty flushes immediately. Inside Batch, every
// affected root flushes once when the outermost batch completes.
//
// # Context values
//
// SetContext stores a value on the rendering component's Owner;
// GetContext finds the nearest value in the Owner hierarchy. A value set
// during render is visible to descendants rendered afterwards in the same
// pass.
//
// # Thread Safety
//
// A Root must be driven from a single goroutine. Independent roots may run
// on different goroutines; render state is tracked per goroutine.
package vango
