package vango

import (
	"testing"

	"github.com/vango-dev/ctxsel/pkg/vdom"
)

func TestCleanupGoroutineContext(t *testing.T) {
	ctx := getTrackingContext()
	ctx.batchDepth = 5

	cleanupGoroutineContext()

	newCtx := getTrackingContext()
	if newCtx.batchDepth != 0 {
		t.Error("new context should have fresh state")
	}
	cleanupGoroutineContext()
}

func TestReleaseGoroutine(t *testing.T) {
	type result struct {
		gid              uint64
		trackedAfterRun  bool
		trackedAfterDone bool
	}
	done := make(chan result)

	go func() {
		var res result
		res.gid = getGoroutineID()

		r := NewRoot()
		err := r.Render(vdom.Func(func() *vdom.VNode {
			n, _ := UseState(1)
			return vdom.Textf("%d", n)
		}))
		if err != nil {
			t.Error(err)
		}
		_, res.trackedAfterRun = trackingContexts.Load(res.gid)

		r.Unmount()
		ReleaseGoroutine()
		_, res.trackedAfterDone = trackingContexts.Load(res.gid)
		done <- res
	}()

	res := <-done
	if !res.trackedAfterRun {
		t.Error("rendering should create a tracking context")
	}
	if res.trackedAfterDone {
		t.Error("ReleaseGoroutine should drop the idle tracking context")
	}
}

func TestReleaseGoroutineInsideScope(t *testing.T) {
	defer cleanupGoroutineContext()

	RunWithPriority(LowPriority, func() {
		ReleaseGoroutine()
		if got := CurrentPriority(); got != LowPriority {
			t.Errorf("priority = %v, want Low", got)
		}
	})

	Batch(func() {
		ReleaseGoroutine()
		if getBatchDepth() != 1 {
			t.Error("batch depth should survive ReleaseGoroutine inside Batch")
		}
	})
}
