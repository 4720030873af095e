package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/ctxsel/internal/errors"
	"github.com/vango-dev/ctxsel/pkg/ctxsel"
	"github.com/vango-dev/ctxsel/pkg/eventlog"
)

func eventsCmd(envFn func() *env) *cobra.Command {
	var (
		filter  eventlog.Filter
		kinds   []string
		asJSON  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "events <file>",
		Short: "Print a recorded event log",
		Long: `Print the registry events recorded by 'ctxsel serve --record'.

Examples:
  ctxsel events events.cbor
  ctxsel events events.cbor --context=ticker --kind=publish
  ctxsel events events.cbor --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range kinds {
				filter.Kinds = append(filter.Kinds, ctxsel.EventKind(k))
			}
			return printEvents(envFn().out, args[0], filter, asJSON, summary)
		},
	}

	cmd.Flags().StringVar(&filter.Context, "context", "", "Only events of this context")
	cmd.Flags().StringVar(&filter.ProviderID, "provider", "", "Only events of this provider")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Only these kinds: mount, pending, publish, resolve, unmount")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per line")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print event counts per context and kind")

	return cmd
}

func printEvents(w io.Writer, path string, filter eventlog.Filter, asJSON, summary bool) error {
	r, err := eventlog.NewReader(path, filter)
	if err != nil {
		return errors.New(errors.CodeEventLog).WithSubject(path).Wrap(err)
	}
	defer r.Close()

	events, err := r.All()
	if err != nil {
		return errors.New(errors.CodeEventLog).WithSubject(path).Wrap(err)
	}

	if summary {
		printSummary(w, events)
		return nil
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	for _, ev := range events {
		if asJSON {
			if err := enc.Encode(ev); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%s  %-8s %-12s v%-4d listeners=%d provider=%s\n",
			ev.At.Format("15:04:05.000"), ev.Kind, ev.Context, ev.Version, ev.Listeners, shortID(ev.ProviderID))
	}
	return nil
}

func printSummary(w io.Writer, events []ctxsel.Event) {
	type key struct {
		context string
		kind    ctxsel.EventKind
	}
	counts := make(map[key]int)
	var order []key
	for _, ev := range events {
		k := key{ev.Context, ev.Kind}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		fmt.Fprintf(w, "%-12s %-8s %d\n", k.context, k.kind, counts[k])
	}
	info(w, "%d events", len(events))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
