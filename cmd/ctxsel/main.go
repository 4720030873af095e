package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/ctxsel/internal/config"
	"github.com/vango-dev/ctxsel/internal/errors"
	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/vango"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐─┐ ┬┌─┐┌─┐┬
  │   │ ┌┴┬┘└─┐├┤ │
  └─┘ ┴ ┴ └─└─┘└─┘┴─┘
`

// env is what every command runs with: the loaded configuration and the
// observability wiring derived from it.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *ctxsel.Registry
	prom     *prometheus.Registry
	metrics  *ctxsel.Metrics
	out      io.Writer
}

func newEnv(cfg *config.Config, out, logOut io.Writer) *env {
	prom := prometheus.NewRegistry()
	opts := append(cfg.MetricsOptions(), ctxsel.WithRegisterer(prom))
	return &env{
		cfg:      cfg,
		logger:   cfg.Logger(logOut),
		registry: ctxsel.NewRegistry(),
		prom:     prom,
		metrics:  ctxsel.NewMetrics(opts...),
		out:      out,
	}
}

// contextOptions wires a demo context to the environment.
func (e *env) contextOptions(name string) []ctxsel.ContextOption {
	return []ctxsel.ContextOption{
		ctxsel.WithName(name),
		ctxsel.WithRegistry(e.registry),
		ctxsel.WithMetrics(e.metrics),
		ctxsel.WithLogger(e.logger),
	}
}

func (e *env) newRoot() *vango.Root {
	return vango.NewRoot(e.cfg.RootOptions(e.logger)...)
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		asJSON, _ := cmd.PersistentFlags().GetBool("json-errors")
		printError(os.Stderr, err, asJSON)
		os.Exit(1)
	}
}

// printError reports a command failure, as one JSON object per line with
// asJSON.
func printError(w io.Writer, err error, asJSON bool) {
	if !asJSON {
		errors.PrintError(err)
		return
	}
	ce := errors.Newf(errors.CategoryCLI, "%s", err)
	if errors.CodeOf(err) != "" {
		ce = errors.FromError(err, "")
	}
	fmt.Fprintln(w, ce.FormatJSON())
}

// applyColor sets the error output color mode: auto, always or never.
// Auto disables colors when NO_COLOR is set.
func applyColor(mode string) error {
	switch mode {
	case "always":
		errors.EnableColors()
	case "never":
		errors.DisableColors()
	case "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			errors.DisableColors()
		} else {
			errors.EnableColors()
		}
	default:
		return errors.Newf(errors.CategoryCLI, "invalid color mode %q", mode).
			WithSuggestion("Use --color=auto, --color=always or --color=never.")
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		colorMode  string
		e          *env
	)
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "ctxsel",
		Short: "Selector subscriptions for vango contexts",
		Long: `ctxsel demonstrates selector-enabled contexts on the vango runtime.

Components subscribe to a slice of a shared value and re-render only when
their slice changes, with every component rendered in one pass seeing the
same version of the value.

Commands:
  • run      run a scripted scenario and print render counts
  • tui      interactive two-counter demo
  • serve    ticking demo with the HTTP/WebSocket inspector
  • events   print a recorded event log
  • config   print the effective configuration
  • explain  describe an error code`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyColor(colorMode); err != nil {
				return err
			}
			path := configPath
			if path == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				if root, err := config.FindProjectRoot(wd); err == nil {
					path = filepath.Join(root, config.ConfigFile)
				}
			} else if _, err := os.Stat(path); err != nil {
				return errors.New(errors.CodeConfigLoad).WithSubject(path).Wrap(err)
			}

			cfg, err := config.LoadViper(v, path)
			if err != nil {
				return err
			}
			e = newEnv(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if p := cfg.Path(); p != "" {
				e.logger.Debug("configuration loaded", "path", p)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Configuration file (default: nearest ctxsel.yaml)")
	pf.StringVar(&colorMode, "color", "auto", "Colored error output: auto, always or never")
	pf.Bool("json-errors", false, "Print errors as JSON objects")
	pf.Bool("strict", false, "Render every component twice")
	pf.Bool("server-side", false, "Run layout effects as passive effects")
	pf.Int("max-flush-passes", config.DefaultMaxFlushPasses, "Render passes allowed per flush")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")
	for key, flag := range map[string]string{
		"strict_mode":      "strict",
		"server_side":      "server-side",
		"max_flush_passes": "max-flush-passes",
		"log.level":        "log-level",
		"log.format":       "log-format",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	envFn := func() *env { return e }
	rootCmd.AddCommand(
		runCmd(envFn),
		tuiCmd(envFn),
		serveCmd(envFn, v),
		eventsCmd(envFn),
		configCmd(envFn),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
