package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/adhistory/internal/database"
	"github.com/roach88/adhistory/internal/history"
	"github.com/roach88/adhistory/internal/notify"
	"github.com/roach88/adhistory/internal/telemetry"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	MetricsAddr   string
	PurgeInterval time.Duration

	// Ready, if set, receives the notification manager once the worker is
	// running (for testing).
	Ready func(*notify.Manager)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the retention worker",
		Long: `Keep the ad history within its retention period until interrupted.

Expired events are purged at startup, every purge interval, and whenever the
process receives SIGUSR1 (treated as the client entering the background).
With --metrics-addr, Prometheus metrics are served at /metrics.

Examples:
  adhistory run --db ./ads.db
  adhistory run --db ./ads.db --purge-interval 10m --metrics-addr :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				opts.MetricsAddr = opts.Config.MetricsAddr
			}
			if !cmd.Flags().Changed("purge-interval") && opts.Config.PurgeInterval > 0 {
				opts.PurgeInterval = opts.Config.PurgeInterval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWorker(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (default $ADHISTORY_METRICS_ADDR)")
	cmd.Flags().DurationVar(&opts.PurgeInterval, "purge-interval", history.DefaultPurgeInterval, "time between purges (default $ADHISTORY_PURGE_INTERVAL)")

	return cmd
}

// runWorker runs until ctx is cancelled.
func runWorker(ctx context.Context, opts *RunOptions) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := telemetry.New(registry)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to register metrics", err)
	}

	engine, err := openEngine(opts.RootOptions, metrics)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	queue := database.NewQueue(engine)
	defer queue.Close()

	store := newStore(opts.RootOptions, queue, metrics)
	worker := history.NewRetentionWorker(store, opts.PurgeInterval, slog.Default())

	manager := notify.NewManager()
	manager.AddObserver(worker)
	defer manager.RemoveObserver(worker)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})

	g.Go(func() error {
		forwardSignals(gctx, manager)
		return nil
	})

	if opts.MetricsAddr != "" {
		server := &http.Server{
			Addr:              opts.MetricsAddr,
			Handler:           metricsHandler(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			slog.Info("serving metrics", "addr", opts.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	slog.Info("retention worker starting",
		"db", opts.databasePath(),
		"retention", store.RetentionPeriod(),
		"interval", opts.PurgeInterval,
	)
	if opts.Ready != nil {
		opts.Ready(manager)
	}

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "retention worker failed", err)
	}

	slog.Info("retention worker stopped gracefully")
	return nil
}

// forwardSignals turns SIGUSR1 into a background notification until ctx
// is done.
func forwardSignals(ctx context.Context, manager *notify.Manager) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigChan:
			slog.Info("received signal, purging", "signal", sig)
			manager.NotifyBrowserDidEnterBackground()
		}
	}
}

func metricsHandler(registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux
}
