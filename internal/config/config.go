package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/ctxsel/internal/errors"
	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/vango"
)

const (
	// ConfigName is the configuration file name, without extension.
	ConfigName = "ctxsel"

	// ConfigFile is the configuration file name looked up by Load.
	ConfigFile = ConfigName + ".yaml"

	// EnvPrefix prefixes environment overrides: CTXSEL_LOG_LEVEL=debug.
	EnvPrefix = "CTXSEL"

	// DefaultMaxFlushPasses bounds layout-effect render passes per flush.
	DefaultMaxFlushPasses = 50

	// DefaultInspectAddr is the inspector listen address.
	DefaultInspectAddr = ":7070"

	// DefaultMetricsNamespace is the Prometheus namespace.
	DefaultMetricsNamespace = "ctxsel"
)

// Config represents the ctxsel configuration.
type Config struct {
	// StrictMode renders every component twice and keeps the second output.
	StrictMode bool `mapstructure:"strict_mode" yaml:"strict_mode"`

	// ServerSide runs layout effects with the passive-effect strategy.
	ServerSide bool `mapstructure:"server_side" yaml:"server_side"`

	// MaxFlushPasses bounds render passes triggered by layout effects.
	MaxFlushPasses int `mapstructure:"max_flush_passes" yaml:"max_flush_passes"`

	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Inspect InspectConfig `mapstructure:"inspect" yaml:"inspect"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// path is the file the configuration was read from, if any.
	path string
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// InspectConfig configures the inspector server.
type InspectConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	Subsystem string `mapstructure:"subsystem" yaml:"subsystem"`
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		MaxFlushPasses: DefaultMaxFlushPasses,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Inspect: InspectConfig{Addr: DefaultInspectAddr},
		Metrics: MetricsConfig{Namespace: DefaultMetricsNamespace},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("strict_mode", d.StrictMode)
	v.SetDefault("server_side", d.ServerSide)
	v.SetDefault("max_flush_passes", d.MaxFlushPasses)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("inspect.addr", d.Inspect.Addr)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.subsystem", d.Metrics.Subsystem)
}

// NewViper returns a viper instance with defaults and CTXSEL_ environment
// overrides bound. Command-line flags are bound on top of it by the CLI.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load loads ctxsel.yaml from dir. A missing file is not an error: the
// defaults and environment apply.
func Load(dir string) (*Config, error) {
	return LoadViper(NewViper(), filepath.Join(dir, ConfigFile))
}

// LoadFile loads configuration from a specific file, which must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New(errors.CodeConfigLoad).WithSubject(path).Wrap(err)
	}
	return LoadViper(NewViper(), path)
}

// LoadViper reads path into v, if the file exists, and decodes v.
func LoadViper(v *viper.Viper, path string) (*Config, error) {
	read := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.New(errors.CodeConfigLoad).WithSubject(path).Wrap(err)
			}
			read = path
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New(errors.CodeConfigLoad).WithSubject(path).Wrap(err)
	}
	cfg.path = read

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was read from, or "".
func (c *Config) Path() string {
	return c.path
}

// YAML encodes the configuration in the ctxsel.yaml format.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxFlushPasses < 1 {
		return errors.New(errors.CodeConfigLoad).
			WithSubject("max_flush_passes").
			WithDetail(fmt.Sprintf("max_flush_passes must be at least 1, got %d", c.MaxFlushPasses))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New(errors.CodeConfigLoad).WithSubject("log.level").Wrap(err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigLoad).
			WithSubject("log.format").
			WithDetail(fmt.Sprintf("unknown log format %q", c.Log.Format)).
			WithSuggestion(`Use "text" or "json"`)
	}
	if c.Metrics.Namespace == "" {
		return errors.New(errors.CodeConfigLoad).
			WithSubject("metrics.namespace").
			WithDetail("metrics.namespace must not be empty")
	}
	return nil
}

// RootOptions converts the runtime settings to vango root options.
func (c *Config) RootOptions(logger *slog.Logger) []vango.RootOption {
	opts := []vango.RootOption{vango.WithMaxFlushPasses(c.MaxFlushPasses)}
	if c.StrictMode {
		opts = append(opts, vango.WithStrictMode())
	}
	if c.ServerSide {
		opts = append(opts, vango.WithServerSide())
	}
	if logger != nil {
		opts = append(opts, vango.WithLogger(logger))
	}
	return opts
}

// MetricsOptions converts the metrics settings to ctxsel metrics options.
func (c *Config) MetricsOptions() []ctxsel.MetricsOption {
	opts := []ctxsel.MetricsOption{ctxsel.WithMetricsNamespace(c.Metrics.Namespace)}
	if c.Metrics.Subsystem != "" {
		opts = append(opts, ctxsel.WithMetricsSubsystem(c.Metrics.Subsystem))
	}
	return opts
}

// Logger builds the structured logger described by the log settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// Exists returns true if a ctxsel.yaml exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFile))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// ctxsel.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigLoad).
				WithDetail("No " + ConfigFile + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest ctxsel.yaml at or
// above the working directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return Load(wd)
	}
	return Load(root)
}
