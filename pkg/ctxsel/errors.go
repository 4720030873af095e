package ctxsel

import (
	"fmt"

	ctxerrors "github.com/vango-dev/ctxsel/internal/errors"
)

// Sentinels matched by errors.Is.
var (
	ErrProtocol        error = ctxerrors.New(ctxerrors.CodeProtocol)
	ErrMissingProvider error = ctxerrors.New(ctxerrors.CodeMissingProvider)
	ErrSelectorPanic   error = ctxerrors.New(ctxerrors.CodeSelectorPanic)
)

// ProtocolError reports an operation invoked on a context or bridge value
// that carries no selector protocol state: a Context not built by
// CreateContext, or a zero BridgeValue.
//
// Hooks and providers panic with a *ProtocolError, which the host reports
// as a render error.
type ProtocolError struct {
	// Op is the operation that was attempted.
	Op string

	// Context is the context name, when known.
	Context string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ctxsel: %s: %v", e.Op,
		ctxerrors.New(ctxerrors.CodeProtocol).WithSubject(e.Context))
}

// Unwrap returns ErrProtocol.
func (e *ProtocolError) Unwrap() error {
	return ErrProtocol
}

// MissingProviderError reports a hook built by CreateProviderFromHook used
// without its provider above it.
type MissingProviderError struct {
	Context string
}

// Error implements the error interface.
func (e *MissingProviderError) Error() string {
	return "ctxsel: " + ctxerrors.New(ctxerrors.CodeMissingProvider).WithSubject(e.Context).Error()
}

// Unwrap returns ErrMissingProvider.
func (e *MissingProviderError) Unwrap() error {
	return ErrMissingProvider
}

// TransientSelectorError wraps a panic raised by a selector. Subscriptions
// keep their previous selection and retry on the next notification; the
// error only escapes when a subscription has no previous selection.
type TransientSelectorError struct {
	Context string

	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e *TransientSelectorError) Error() string {
	return fmt.Sprintf("ctxsel: %v: %v",
		ctxerrors.New(ctxerrors.CodeSelectorPanic).WithSubject(e.Context), e.Value)
}

// Unwrap returns the panic value when it is an error, and ErrSelectorPanic
// otherwise.
func (e *TransientSelectorError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrSelectorPanic, err}
	}
	return []error{ErrSelectorPanic}
}
