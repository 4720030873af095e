package vango

// DebugMode enables hook order validation. It should be set at startup and
// not changed during runtime.
var DebugMode bool

// Batch groups state changes into a single flush.
// Instances marked dirty inside fn are queued on their roots, and every
// affected root is flushed once when the outermost batch completes.
//
// Batches can be nested. Flushing only happens when the outermost batch completes.
//
// Example:
//
//	Batch(func() {
//	    setFirst(func(string) string { return "John" })
//	    setLast(func(string) string { return "Doe" })
//	})
//	// One render pass with both changes
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			flushPendingRoots()
			if getTrackingContext().flushDepth == 0 {
				runAfterBatch()
			}
		}
	}()

	fn()
}

// flushPendingRoots flushes every root queued during the batch. Flushing a
// root may queue work on another root (bridged subtrees), so it loops
// until no root is pending.
func flushPendingRoots() {
	for {
		roots := drainPendingRoots()
		if len(roots) == 0 {
			return
		}
		for _, r := range roots {
			_ = r.Flush()
		}
	}
}

// AfterBatch runs fn once the outermost batch has completed and every root
// it touched has flushed. Outside a batch and a flush, fn runs immediately.
func AfterBatch(fn func()) {
	ctx := getTrackingContext()
	if ctx.batchDepth == 0 && ctx.flushDepth == 0 {
		fn()
		return
	}
	ctx.afterBatch = append(ctx.afterBatch, fn)
}

// runAfterBatch runs queued after-batch callbacks. Each runs inside its own
// batch, so work it schedules is flushed before the next one runs.
func runAfterBatch() {
	for {
		fns := drainAfterBatch()
		if len(fns) == 0 {
			return
		}
		for _, fn := range fns {
			Batch(fn)
		}
	}
}
