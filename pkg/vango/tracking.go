package vango

import (
	"runtime"
	"sync"
)

// TrackingContext holds the render state for a goroutine.
// Each goroutine has its own tracking context so independent roots can be
// driven from different goroutines; a single root is always driven from one.
type TrackingContext struct {
	// currentOwner is the Owner whose hook slots and context values are used.
	currentOwner *Owner

	// currentInstance is the component instance being rendered.
	// nil outside render.
	currentInstance *Instance

	// batchDepth tracks nested Batch() calls.
	// When > 0, scheduled renders are queued instead of flushed.
	batchDepth int

	// pendingRoots are roots with queued work to flush when the batch ends.
	pendingRoots []*Root

	// flushDepth counts roots flushing on this goroutine.
	flushDepth int

	// afterBatch are callbacks to run once the outermost batch flushed.
	afterBatch []func()

	// priority is the ambient scheduling priority. Zero means Normal.
	priority Priority
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine.
// If no context exists, creates a new one.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// cleanupGoroutineContext removes the tracking context for the current
// goroutine.
func cleanupGoroutineContext() {
	trackingContexts.Delete(getGoroutineID())
}

// idle reports whether the context holds no render, batch or priority state.
func (ctx *TrackingContext) idle() bool {
	return ctx.currentOwner == nil &&
		ctx.currentInstance == nil &&
		ctx.batchDepth == 0 &&
		len(ctx.pendingRoots) == 0 &&
		ctx.flushDepth == 0 &&
		len(ctx.afterBatch) == 0 &&
		ctx.priority == 0
}

// ReleaseGoroutine drops the tracking state of the calling goroutine.
// Goroutines that drive roots should defer it once they are done with
// every root. It is a no-op while a render, batch or priority scope is in
// progress on the goroutine.
func ReleaseGoroutine() {
	ctx, ok := trackingContexts.Load(getGoroutineID())
	if !ok || !ctx.(*TrackingContext).idle() {
		return
	}
	cleanupGoroutineContext()
}

// getCurrentOwner returns the current owner for the goroutine.
func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner sets the current owner and returns the previous one.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// getCurrentInstance returns the instance being rendered, or nil.
func getCurrentInstance() *Instance {
	return getTrackingContext().currentInstance
}

// setCurrentInstance sets the instance being rendered and returns the
// previous one.
func setCurrentInstance(i *Instance) *Instance {
	ctx := getTrackingContext()
	old := ctx.currentInstance
	ctx.currentInstance = i
	return old
}

// getBatchDepth returns the current batch nesting depth.
func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

// incrementBatchDepth increases the batch depth by 1.
func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1.
// Returns true if batch depth reached 0 (batch complete).
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queuePendingRoot records a root to flush when the outermost batch ends.
func queuePendingRoot(r *Root) {
	ctx := getTrackingContext()
	for _, existing := range ctx.pendingRoots {
		if existing == r {
			return
		}
	}
	ctx.pendingRoots = append(ctx.pendingRoots, r)
}

// drainPendingRoots returns and clears the pending roots queue.
func drainPendingRoots() []*Root {
	ctx := getTrackingContext()
	roots := ctx.pendingRoots
	ctx.pendingRoots = nil
	return roots
}

// enterFlush records that a root started flushing.
func enterFlush() {
	getTrackingContext().flushDepth++
}

// exitFlush records that a root finished flushing. It reports whether no
// flush or batch remains in progress.
func exitFlush() bool {
	ctx := getTrackingContext()
	ctx.flushDepth--
	return ctx.flushDepth == 0 && ctx.batchDepth == 0
}

// drainAfterBatch returns and clears the after-batch callbacks.
func drainAfterBatch() []func() {
	ctx := getTrackingContext()
	fns := ctx.afterBatch
	ctx.afterBatch = nil
	return fns
}

// WithOwner runs a function with the specified owner as the current owner.
// Context lookups made by fn start at owner.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}
