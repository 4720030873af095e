package vango

import (
	"errors"

	ctxerrors "github.com/vango-dev/ctxsel/internal/errors"
)

// ErrFlushLimit is returned by Root.Flush when layout effects keep
// scheduling renders past the configured number of passes. The remaining
// queued work is dropped.
var ErrFlushLimit error = ctxerrors.New(ctxerrors.CodeFlushLimit)

// ErrNoTarget is returned by Root.Click when no committed node with the
// given test ID carries a click handler.
var ErrNoTarget = errors.New("vango: no event target")

// ErrUnmounted is returned when rendering into a root that was unmounted.
var ErrUnmounted = errors.New("vango: root unmounted")

// HookError is the panic value raised when a hook is called outside a
// component render.
type HookError struct {
	Hook HookType
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return ctxerrors.New(ctxerrors.CodeHookOutside).WithSubject(e.Hook.String()).Error()
}

// Unwrap returns the coded error for errors.Is matching.
func (e *HookError) Unwrap() error {
	return ctxerrors.New(ctxerrors.CodeHookOutside)
}
