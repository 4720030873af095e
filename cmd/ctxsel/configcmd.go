package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func configCmd(envFn func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying ctxsel.yaml, CTXSEL_ environment
variables and flags, in the ctxsel.yaml format.

Examples:
  ctxsel config
  CTXSEL_LOG_LEVEL=debug ctxsel config --strict > ctxsel.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFn()
			data, err := e.cfg.YAML()
			if err != nil {
				return err
			}
			if p := e.cfg.Path(); p != "" {
				fmt.Fprintf(e.out, "# loaded from %s\n", p)
			}
			_, err = e.out.Write(data)
			return err
		},
	}
}
