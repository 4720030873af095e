package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// Registered error codes.
const (
	CodeProtocol        = "E101"
	CodeMissingProvider = "E102"
	CodeSelectorPanic   = "E103"
	CodeFlushLimit      = "E104"
	CodeHookOutside     = "E105"

	CodeUnknownScenario = "E120"
	CodeConfigLoad      = "E121"
	CodeServe           = "E122"
	CodeEventLog        = "E123"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Selector context errors (E101-E119)
	// ============================================

	CodeProtocol: {
		Category:   CategoryProtocol,
		Message:    "Context is not selector-enabled",
		Detail:     "Selector subscriptions, updates and bridges only work on contexts built by ctxsel.CreateContext. A zero Context or a zero BridgeValue carries no protocol state.",
		Suggestion: "Create the context with ctxsel.CreateContext and pass the same value to providers and hooks.",
		DocURL:     "https://vango.dev/docs/errors/E101",
	},
	CodeMissingProvider: {
		Category:   CategoryRuntime,
		Message:    "Missing provider",
		Detail:     "A hook built with ProviderFromHook was used in a component that has no matching provider above it.",
		Suggestion: "Wrap the component tree in the provider returned alongside the hook.",
		DocURL:     "https://vango.dev/docs/errors/E102",
	},
	CodeSelectorPanic: {
		Category: CategoryRuntime,
		Message:  "Selector panicked",
		Detail:   "A selector panicked while computing a selection. Selections computed from a value that is still propagating are kept at their previous result and retried on the next notification.",
		DocURL:   "https://vango.dev/docs/errors/E103",
	},
	CodeFlushLimit: {
		Category:   CategoryRuntime,
		Message:    "Flush pass limit exceeded",
		Detail:     "Layout effects kept scheduling renders after the configured number of render/commit passes.",
		Suggestion: "Check for layout effects that set state unconditionally, or raise max_flush_passes.",
		DocURL:     "https://vango.dev/docs/errors/E104",
	},
	CodeHookOutside: {
		Category:   CategoryRuntime,
		Message:    "Hook called outside component render",
		Detail:     "Hooks store their state on the component being rendered and can only run inside a render function.",
		Suggestion: "Call the hook unconditionally at the top of a component's render function.",
		DocURL:     "https://vango.dev/docs/errors/E105",
	},

	// ============================================
	// CLI Errors (E120-E139)
	// ============================================

	CodeUnknownScenario: {
		Category:   CategoryCLI,
		Message:    "Unknown scenario",
		Detail:     "The requested demo scenario does not exist.",
		Suggestion: "Run 'ctxsel run --help' to list scenarios.",
		DocURL:     "https://vango.dev/docs/errors/E120",
	},
	CodeConfigLoad: {
		Category:   CategoryConfig,
		Message:    "Configuration could not be loaded",
		Detail:     "The configuration file exists but could not be read or parsed.",
		Suggestion: "Check ctxsel.yaml for syntax errors.",
		DocURL:     "https://vango.dev/docs/errors/E121",
	},
	CodeServe: {
		Category: CategoryCLI,
		Message:  "Inspector server failed",
		Detail:   "The inspector HTTP server stopped with an error.",
		DocURL:   "https://vango.dev/docs/errors/E122",
	},
	CodeEventLog: {
		Category:   CategoryCLI,
		Message:    "Event recording failed",
		Detail:     "The registry event log could not be written or read.",
		Suggestion: "Check the path passed to --record or 'ctxsel events'.",
		DocURL:     "https://vango.dev/docs/errors/E123",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
