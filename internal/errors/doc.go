// Package errors provides structured, actionable error messages for ctxsel.
//
// Every error has a unique code (e.g., "E101") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A fix suggestion and a documentation URL
//
// # Error Categories
//
//   - runtime: component and selector errors (missing provider, flush limit)
//   - protocol: misuse of the selector-context protocol
//   - config: configuration loading
//   - cli: command line errors
//
// # Usage
//
//	err := errors.New(errors.CodeProtocol).WithSubject("theme")
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Context is not selector-enabled
//	//
//	//   theme
//	//
//	//   Selector subscriptions, updates and bridges only work on ...
//	//
//	//   Hint: Create the context with ctxsel.CreateContext ...
//	//
//	//   Learn more: https://vango.dev/docs/errors/E101
package errors
