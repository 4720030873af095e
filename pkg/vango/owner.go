package vango

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookRef
	HookMemo
	HookLayoutEffect
	HookEffect
	HookContext
	HookSlot
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookRef:
		return "Ref"
	case HookMemo:
		return "Memo"
	case HookLayoutEffect:
		return "LayoutEffect"
	case HookEffect:
		return "Effect"
	case HookContext:
		return "Context"
	case HookSlot:
		return "Slot"
	default:
		return "Unknown"
	}
}

// Owner represents a component scope. It holds the component's hook slots,
// the context values it provides to descendants, and cleanup functions.
//
// Owners form a hierarchy mirroring the component tree: each instance's
// Owner is a child of its parent instance's Owner. Context lookups walk
// this hierarchy upwards.
type Owner struct {
	id uint64

	// parent is the parent Owner in the hierarchy.
	// nil for a root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// cleanups are manual cleanup functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// values stores context values for this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool

	// Dev-mode hook order tracking (only used when DebugMode is true)
	hookOrder   []HookType
	hookIndex   int
	renderCount int

	// Hook slot storage for stable identity across renders.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner with the given parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// OnCleanup registers a cleanup function to run when this Owner is disposed.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// SetValue sets a context value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue retrieves a value from this Owner or its nearest ancestor that
// has one.
func (o *Owner) GetValue(key any) any {
	o.valuesMu.RLock()
	if o.values != nil {
		if val, ok := o.values[key]; ok {
			o.valuesMu.RUnlock()
			return val
		}
	}
	o.valuesMu.RUnlock()

	if o.parent != nil {
		return o.parent.GetValue(key)
	}
	return nil
}

// Dispose disposes this Owner and all its children.
// Children are disposed in reverse order (last created first), then the
// Owner's own cleanups run in reverse registration order.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// =============================================================================
// Dev-mode Hook Order Validation
// =============================================================================

// StartRender is called at the beginning of a component render.
// It resets the hook slot index for stable identity, and in debug mode,
// also resets the hook order validation index.
func (o *Owner) StartRender() {
	o.hookSlotIdx = 0
	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode, it validates that all expected hooks were called.
func (o *Owner) EndRender() {
	if !DebugMode {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
	} else if o.hookIndex < len(o.hookOrder) {
		panic(fmt.Sprintf("[VANGO E002] Hook order changed: expected %d hooks, got %d",
			len(o.hookOrder), o.hookIndex))
	}
}

// TrackHook records a hook call during render for order validation.
// Violations cause a panic with a descriptive error.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(fmt.Sprintf("[VANGO E002] Hook order changed: extra %s hook at index %d",
				ht, o.hookIndex))
		}
		if expected := o.hookOrder[o.hookIndex]; expected != ht {
			panic(fmt.Sprintf("[VANGO E002] Hook order changed at index %d: expected %s, got %s",
				o.hookIndex, expected, ht))
		}
	}
	o.hookIndex++
}

// UseHookSlot returns the stored value for the current hook slot, or nil
// on the first render. The caller creates the value and stores it with
// SetHookSlot.
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the current hook slot.
// Must be called after UseHookSlot returns nil (first render).
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}
