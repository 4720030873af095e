package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ctxsel/internal/errors"
)

func runCmd(envFn func() *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a scripted scenario",
		Long: `Run a scripted scenario and print what rendered.

Scenarios:
` + scenarioHelp() + `
Examples:
  ctxsel run counter
  ctxsel run tearing --strict
  ctxsel run bridge --server-side`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return scenarioNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(envFn(), args[0])
		},
	}
	return cmd
}

func runScenario(e *env, name string) error {
	sc, err := findScenario(name)
	if err != nil {
		return err
	}
	info(e.out, "scenario %s: %s", sc.name, sc.desc)
	if err := sc.run(e); err != nil {
		return fmt.Errorf("scenario %s: %w", sc.name, err)
	}
	success(e.out, "%s passed", sc.name)
	return nil
}

func findScenario(name string) (scenario, error) {
	for _, sc := range scenarios {
		if sc.name == name {
			return sc, nil
		}
	}
	return scenario{}, errors.New(errors.CodeUnknownScenario).
		WithSubject(name).
		WithSuggestion("Available scenarios: " + strings.Join(scenarioNames(), ", ")).
		WithExample("ctxsel run " + scenarios[0].name)
}

func scenarioNames() []string {
	names := make([]string, len(scenarios))
	for i, sc := range scenarios {
		names[i] = sc.name
	}
	sort.Strings(names)
	return names
}

func scenarioHelp() string {
	var b strings.Builder
	for _, sc := range scenarios {
		fmt.Fprintf(&b, "  %-12s %s\n", sc.name, sc.desc)
	}
	return b.String()
}
