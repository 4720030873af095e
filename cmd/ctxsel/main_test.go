package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/ctxsel/internal/config"
	"github.com/vango-dev/ctxsel/internal/errors"
	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/eventlog"
)

func testEnv(t *testing.T, mutate func(*config.Config)) (*env, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	var out bytes.Buffer
	return newEnv(cfg, &out, io.Discard), &out
}

func TestScenarios(t *testing.T) {
	modes := map[string]func(*config.Config){
		"default":     nil,
		"strict":      func(c *config.Config) { c.StrictMode = true },
		"server-side": func(c *config.Config) { c.ServerSide = true },
	}

	for _, sc := range scenarios {
		for mode, mutate := range modes {
			t.Run(sc.name+"/"+mode, func(t *testing.T) {
				e, out := testEnv(t, mutate)
				require.NoError(t, runScenario(e, sc.name))
				assert.Contains(t, out.String(), sc.name+" passed")
			})
		}
	}
}

func TestCounterScenarioOutput(t *testing.T) {
	e, out := testEnv(t, nil)
	require.NoError(t, runScenario(e, "counter"))

	lines := strings.Split(out.String(), "\n")
	var last string
	for _, l := range lines {
		if strings.Contains(l, "click count2") {
			last = l
		}
	}
	assert.Contains(t, last, "count1=2 (renders 3)")
	assert.Contains(t, last, "count2=1 (renders 2)")
}

func TestUnknownScenario(t *testing.T) {
	e, _ := testEnv(t, nil)
	err := runScenario(e, "nope")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownScenario, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestRootCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "update", "--strict"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "update passed")

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())

	cmd = newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"run", "counter", "--config", "missing.yaml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigLoad, errors.CodeOf(err))
}

func TestTUIModel(t *testing.T) {
	e, _ := testEnv(t, nil)
	d, err := newDemo(e, "tui")
	require.NoError(t, err)
	defer d.root.Unmount()

	var m tea.Model = newTUIModel(d)
	press := func(key string) {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}

	press("1")
	press("1")
	press("2")
	press("t")

	view := m.View()
	assert.Contains(t, view, "renders: 4")
	assert.Contains(t, view, "renders: 2")
	assert.Equal(t, "3", d.value("count1"))
	assert.Equal(t, "1", d.value("count2"))

	press("s")
	assert.Contains(t, m.View(), "enter apply")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	press("x")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "not a number")
	assert.Equal(t, "1", d.value("count2"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	press("4")
	press("2")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "42", d.value("count2"))
	assert.Equal(t, "3", d.value("count1"))
	assert.Contains(t, m.View(), "renders: 3")

	press("s")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "enter apply")

	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, "Goodbye!\n", m.View())
}

func TestServe(t *testing.T) {
	e, _ := testEnv(t, func(c *config.Config) { c.Inspect.Addr = "127.0.0.1:0" })

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, serve(ctx, e, 10*time.Millisecond, ""))

	ci, err := e.registry.Context("ticker")
	require.NoError(t, err)
	assert.Empty(t, ci.Providers, "the demo unmounts on shutdown")
}

func TestServeRecordsEvents(t *testing.T) {
	e, out := testEnv(t, func(c *config.Config) { c.Inspect.Addr = "127.0.0.1:0" })
	path := filepath.Join(t.TempDir(), "events.cbor")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, serve(ctx, e, 10*time.Millisecond, path))
	assert.Contains(t, out.String(), "recording events to "+path)

	r, err := eventlog.NewReader(path, eventlog.Filter{Context: "ticker"})
	require.NoError(t, err)
	defer r.Close()
	events, err := r.All()
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, ctxsel.EventMount, events[0].Kind)
	assert.Equal(t, ctxsel.EventUnmount, events[len(events)-1].Kind, "the log ends with the demo unmount")
	var publishes int
	for _, ev := range events {
		if ev.Kind == ctxsel.EventPublish {
			publishes++
		}
	}
	assert.Positive(t, publishes)

	var buf bytes.Buffer
	require.NoError(t, printEvents(&buf, path, eventlog.Filter{Kinds: []ctxsel.EventKind{ctxsel.EventMount}}, false, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "mount")
	assert.Contains(t, lines[0], "ticker")

	buf.Reset()
	require.NoError(t, printEvents(&buf, path, eventlog.Filter{}, false, true))
	assert.Contains(t, buf.String(), "ticker")
	assert.Contains(t, buf.String(), "publish")
}

func TestEventsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "events.cbor")

	w, err := eventlog.NewFileWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(ctxsel.Event{Kind: ctxsel.EventMount, Context: "store", ProviderID: "0123456789"}))
	require.NoError(t, w.Write(ctxsel.Event{Kind: ctxsel.EventPublish, Context: "store", Version: 1, Listeners: 2}))
	require.NoError(t, w.Write(ctxsel.Event{Kind: ctxsel.EventPublish, Context: "other", Version: 1}))
	require.NoError(t, w.Close())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"events", path, "--context=store", "--kind=publish", "--json"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), `"kind":"publish"`)
	assert.Contains(t, out.String(), `"listeners":2`)

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"events", path, "--context=store"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "provider=01234567\n")

	cmd = newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"events", filepath.Join(dir, "missing.cbor")})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.CodeEventLog, errors.CodeOf(err))
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--strict", "--max-flush-passes=9"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "strict_mode: true")
	assert.Contains(t, out.String(), "max_flush_passes: 9")
	assert.NotContains(t, out.String(), "# loaded from")

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("log:\n  format: json\n"), 0644))

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "# loaded from ")
	assert.Contains(t, out.String(), "format: json")
}

func TestExplainCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	defer errors.EnableColors()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"explain"})
	require.NoError(t, cmd.Execute())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(errors.GetAllCodes()))
	assert.True(t, strings.HasPrefix(lines[0], "E101"))
	assert.Contains(t, out.String(), "Missing provider")

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"explain", "E102", "--color", "never"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ERROR E102: Missing provider")
	assert.NotContains(t, out.String(), "\033[")

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"explain", "E104", "--json"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), `{"code":"E104","category":"runtime"`))

	cmd = newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"explain", "E999"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown error code "E999"`)

	cmd = newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"explain", "--color", "sometimes"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid color mode "sometimes"`)
}

func TestPrintErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	_, err := findScenario("nope")
	printError(&buf, err, true)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `{"code":"E120","category":"cli"`), out)
	assert.Contains(t, out, `"subject":"nope"`)
	assert.Contains(t, out, `"example":"ctxsel run `)
	assert.True(t, strings.HasSuffix(out, "}\n"))

	buf.Reset()
	printError(&buf, fmt.Errorf("plain failure"), true)
	assert.Equal(t, `{"category":"cli","message":"plain failure"}`+"\n", buf.String())
}
