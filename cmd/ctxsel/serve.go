package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/ctxsel/internal/errors"
	"github.com/vango-dev/ctxsel/pkg/eventlog"
	"github.com/vango-dev/ctxsel/pkg/inspect"
	"github.com/vango-dev/ctxsel/pkg/vango"
)

const recordBuffer = 256

func serveCmd(envFn func() *env, v *viper.Viper) *cobra.Command {
	var (
		interval time.Duration
		record   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a ticking demo with the inspector",
		Long: `Run the counter demo, incrementing it on every tick, and serve the
inspector:

  GET /contexts          registered contexts and providers
  GET /contexts/{name}   one context
  GET /metrics           Prometheus metrics
  GET /ws                live registry events

Examples:
  ctxsel serve
  ctxsel serve --addr=127.0.0.1:9000 --interval=250ms
  ctxsel serve --record=events.cbor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, envFn(), interval, record)
		},
	}

	cmd.Flags().String("addr", "", "Inspector listen address (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Tick interval")
	cmd.Flags().StringVar(&record, "record", "", "Append registry events to this CBOR file")
	_ = v.BindPFlag("inspect.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

// serve runs the inspector and the ticking demo until ctx is done or one
// of them fails. With a record path it also appends every registry event
// to that file.
func serve(ctx context.Context, e *env, interval time.Duration, record string) error {
	srv := inspect.New(e.registry,
		inspect.WithGatherer(e.prom),
		inspect.WithLogger(e.logger),
	)

	g, ctx := errgroup.WithContext(ctx)

	// The recorder outlives the demo so the log ends with its unmount.
	recCtx, demoDone := context.WithCancel(context.Background())
	defer demoDone()
	if record != "" {
		w, err := eventlog.NewFileWriter(record)
		if err != nil {
			return errors.New(errors.CodeEventLog).WithSubject(record).Wrap(err)
		}
		defer w.Close()

		// Watch before the demo mounts so the log starts with its mount.
		events, stop := e.registry.Watch(recordBuffer)
		defer stop()
		g.Go(func() error {
			if err := eventlog.Record(recCtx, events, w); err != nil {
				return errors.New(errors.CodeEventLog).WithSubject(record).Wrap(err)
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(ctx, e.cfg.Inspect.Addr); err != nil {
			return errors.New(errors.CodeServe).WithSubject(e.cfg.Inspect.Addr).Wrap(err)
		}
		return nil
	})
	g.Go(func() error {
		// The demo lives on this goroutine only.
		defer vango.ReleaseGoroutine()
		defer demoDone()
		d, err := newDemo(e, "ticker")
		if err != nil {
			return err
		}
		defer d.root.Unmount()

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if err := d.tick(); err != nil {
					return err
				}
				e.logger.Debug("tick", "count1", d.value("count1"))
			}
		}
	})

	printBanner(e.out)
	info(e.out, "inspector on %s", e.cfg.Inspect.Addr)
	if record != "" {
		info(e.out, "recording events to %s", record)
	}
	return g.Wait()
}
