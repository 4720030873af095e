package vango

import (
	"log/slog"

	"github.com/google/uuid"
)

// DefaultMaxFlushPasses bounds the render/commit passes of one flush.
const DefaultMaxFlushPasses = 50

// RootConfig configures a Root.
type RootConfig struct {
	// ID identifies the root in logs. Default: a random UUID.
	ID string

	// StrictMode invokes every component render function twice and
	// discards the first output, surfacing impure renders.
	StrictMode bool

	// ServerSide selects the non-interactive effect strategy: layout
	// effects are deferred and run with passive effects.
	ServerSide bool

	// MaxFlushPasses bounds the render/commit passes of one flush.
	// Default: DefaultMaxFlushPasses.
	MaxFlushPasses int

	// Logger is the structured logger for the root.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// RootOption configures a Root.
type RootOption func(*RootConfig)

// WithRootID sets the root identifier.
func WithRootID(id string) RootOption {
	return func(c *RootConfig) {
		c.ID = id
	}
}

// WithStrictMode enables double invocation of render functions.
func WithStrictMode() RootOption {
	return func(c *RootConfig) {
		c.StrictMode = true
	}
}

// WithServerSide selects the server-side (deferred) layout effect strategy.
func WithServerSide() RootOption {
	return func(c *RootConfig) {
		c.ServerSide = true
	}
}

// WithMaxFlushPasses sets the flush pass limit.
func WithMaxFlushPasses(n int) RootOption {
	return func(c *RootConfig) {
		c.MaxFlushPasses = n
	}
}

// WithLogger sets the root's logger.
func WithLogger(l *slog.Logger) RootOption {
	return func(c *RootConfig) {
		c.Logger = l
	}
}

// WithConfig applies a whole RootConfig, keeping defaults for zero fields.
func WithConfig(cfg RootConfig) RootOption {
	return func(c *RootConfig) {
		if cfg.ID != "" {
			c.ID = cfg.ID
		}
		c.StrictMode = c.StrictMode || cfg.StrictMode
		c.ServerSide = c.ServerSide || cfg.ServerSide
		if cfg.MaxFlushPasses > 0 {
			c.MaxFlushPasses = cfg.MaxFlushPasses
		}
		if cfg.Logger != nil {
			c.Logger = cfg.Logger
		}
	}
}

func defaultRootConfig() RootConfig {
	return RootConfig{
		ID:             uuid.NewString(),
		MaxFlushPasses: DefaultMaxFlushPasses,
		Logger:         slog.Default(),
	}
}
