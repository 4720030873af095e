package config

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/ctxsel/internal/errors"
	"github.com/vango-dev/ctxsel/pkg/vango"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.MaxFlushPasses != DefaultMaxFlushPasses {
		t.Errorf("MaxFlushPasses = %d, want %d", cfg.MaxFlushPasses, DefaultMaxFlushPasses)
	}
	if cfg.Inspect.Addr != DefaultInspectAddr {
		t.Errorf("Inspect.Addr = %q, want %q", cfg.Inspect.Addr, DefaultInspectAddr)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultMetricsNamespace)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.MaxFlushPasses != DefaultMaxFlushPasses {
		t.Errorf("MaxFlushPasses = %d", cfg.MaxFlushPasses)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFile)
	configYAML := `strict_mode: true
max_flush_passes: 10
log:
  level: debug
  format: json
inspect:
  addr: "127.0.0.1:9000"
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.StrictMode {
		t.Error("StrictMode = false, want true")
	}
	if cfg.ServerSide {
		t.Error("ServerSide = true, want false")
	}
	if cfg.MaxFlushPasses != 10 {
		t.Errorf("MaxFlushPasses = %d, want 10", cfg.MaxFlushPasses)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Inspect.Addr != "127.0.0.1:9000" {
		t.Errorf("Inspect.Addr = %q", cfg.Inspect.Addr)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CTXSEL_SERVER_SIDE", "true")
	t.Setenv("CTXSEL_LOG_LEVEL", "warn")
	t.Setenv("CTXSEL_METRICS_NAMESPACE", "demo")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.ServerSide {
		t.Error("ServerSide = false, want true")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Metrics.Namespace != "demo" {
		t.Errorf("Metrics.Namespace = %q, want demo", cfg.Metrics.Namespace)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.CodeOf(err) != errors.CodeConfigLoad {
		t.Errorf("CodeOf() = %q, want %q", errors.CodeOf(err), errors.CodeConfigLoad)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("error does not wrap os.ErrNotExist: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("log: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestYAMLLoadsBack(t *testing.T) {
	cfg := New()
	cfg.StrictMode = true
	cfg.MaxFlushPasses = 7
	cfg.Log.Format = "json"
	cfg.Metrics.Subsystem = "demo"

	data, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if !strings.Contains(string(data), "max_flush_passes: 7") {
		t.Errorf("YAML() = %s, want max_flush_passes: 7", data)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), data, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got.path = ""
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", *got, *cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		subject string
	}{
		{"flush passes", func(c *Config) { c.MaxFlushPasses = 0 }, "max_flush_passes"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"namespace", func(c *Config) { c.Metrics.Namespace = "" }, "metrics.namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var ce *errors.CodedError
			if !stderrors.As(err, &ce) {
				t.Fatalf("error is %T, want *CodedError", err)
			}
			if ce.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", ce.Subject, tt.subject)
			}
		})
	}
}

func TestRootOptions(t *testing.T) {
	cfg := New()
	cfg.StrictMode = true
	cfg.ServerSide = true
	cfg.MaxFlushPasses = 7

	r := vango.NewRoot(cfg.RootOptions(nil)...)
	rc := r.Config()
	if !rc.StrictMode || !rc.ServerSide {
		t.Errorf("root config = %+v", rc)
	}
	if rc.MaxFlushPasses != 7 {
		t.Errorf("MaxFlushPasses = %d, want 7", rc.MaxFlushPasses)
	}

	if n := len(cfg.MetricsOptions()); n != 1 {
		t.Errorf("len(MetricsOptions()) = %d, want 1", n)
	}
	cfg.Metrics.Subsystem = "app"
	if n := len(cfg.MetricsOptions()); n != 2 {
		t.Errorf("len(MetricsOptions()) = %d, want 2", n)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("strict_mode: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if found != want {
		t.Errorf("FindProjectRoot() = %q, want %q", found, want)
	}

	if !Exists(root) {
		t.Error("Exists(root) = false")
	}
	if Exists(nested) {
		t.Error("Exists(nested) = true")
	}
}
