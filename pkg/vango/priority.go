package vango

// Priority is a scheduling priority for render work.
// Dirty instances are flushed in descending priority order: all work at
// the highest pending priority renders and commits before lower lanes.
type Priority int

const (
	IdlePriority Priority = iota + 1
	LowPriority
	NormalPriority
	UserBlockingPriority
	ImmediatePriority
)

// String returns a human-readable name for the priority.
func (p Priority) String() string {
	switch p {
	case IdlePriority:
		return "idle"
	case LowPriority:
		return "low"
	case NormalPriority:
		return "normal"
	case UserBlockingPriority:
		return "user-blocking"
	case ImmediatePriority:
		return "immediate"
	default:
		return "unknown"
	}
}

// CurrentPriority returns the ambient priority of the calling goroutine.
// Outside RunWithPriority it is NormalPriority.
func CurrentPriority() Priority {
	if p := getTrackingContext().priority; p != 0 {
		return p
	}
	return NormalPriority
}

// RunWithPriority runs fn with p as the ambient priority. Instances marked
// dirty inside fn are scheduled in p's lane.
func RunWithPriority(p Priority, fn func()) {
	ctx := getTrackingContext()
	old := ctx.priority
	ctx.priority = p
	defer func() { ctx.priority = old }()
	fn()
}
