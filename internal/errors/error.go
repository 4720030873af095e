package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// CodedError is a structured error with a registered code, an explanation
// and a fix suggestion.
type CodedError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (runtime, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Subject names what the error is about (a context, a scenario).
	Subject string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Subject)
	}
	if e.Wrapped != nil {
		msg = msg + ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CodedError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a CodedError with the same code.
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithSubject names what the error is about.
func (e *CodedError) WithSubject(s string) *CodedError {
	e.Subject = s
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *CodedError) WithSuggestion(s string) *CodedError {
	e.Suggestion = s
	return e
}

// WithExample adds a code example to the error.
func (e *CodedError) WithExample(ex string) *CodedError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *CodedError) WithDetail(d string) *CodedError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *CodedError) Wrap(err error) *CodedError {
	e.Wrapped = err
	return e
}

// New creates a CodedError from a registered error code.
func New(code string) *CodedError {
	template, ok := registry[code]
	if !ok {
		return &CodedError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CodedError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new CodedError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *CodedError {
	return &CodedError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a CodedError.
// An error that already carries a CodedError in its chain is returned as
// that CodedError.
func FromError(err error, code string) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first CodedError in err's chain, or "".
func CodeOf(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
