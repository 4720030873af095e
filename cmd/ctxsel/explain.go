package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ctxsel/internal/errors"
)

func explainCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe a registered error code, or list every code.

Examples:
  ctxsel explain
  ctxsel explain E102
  ctxsel explain E102 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				codes := errors.GetAllCodes()
				sort.Strings(codes)
				for _, code := range codes {
					tmpl, _ := errors.GetTemplate(code)
					fmt.Fprintf(w, "%s  %-9s %s\n", code, tmpl.Category, tmpl.Message)
				}
				return nil
			}

			code := args[0]
			if _, ok := errors.GetTemplate(code); !ok {
				return errors.Newf(errors.CategoryCLI, "unknown error code %q", code).
					WithSuggestion("Run 'ctxsel explain' to list codes.")
			}
			ce := errors.New(code)
			if asJSON {
				fmt.Fprintln(w, ce.FormatJSON())
				return nil
			}
			fmt.Fprint(w, ce.Format())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the code as a JSON object")

	return cmd
}
