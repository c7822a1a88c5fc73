package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/database"
	"github.com/roach88/adhistory/internal/history"
	"github.com/roach88/adhistory/internal/telemetry"
)

// databasePath returns --db, falling back to the configured path.
func (o *RootOptions) databasePath() string {
	if o.Database != "" {
		return o.Database
	}
	return o.Config.DatabasePath
}

func (o *RootOptions) clock() history.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return history.SystemClock{}
}

func (o *RootOptions) generator() ad.PlacementIDGenerator {
	if o.Generator != nil {
		return o.Generator
	}
	return ad.UUIDv7Generator{}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// openEngine opens the database and migrates the ad_history table.
func openEngine(opts *RootOptions, metrics *telemetry.Metrics) (*database.Engine, error) {
	path := opts.databasePath()
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no database: pass --db or set ADHISTORY_DATABASE_PATH")
	}

	slog.Debug("opening database", "path", path)
	engine, err := database.Open(path,
		database.WithTables(history.Schema{}),
		database.WithMetrics(metrics),
		database.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return engine, nil
}

// newStore builds a Store on exec from the configured settings. Zero
// settings keep the store defaults.
func newStore(opts *RootOptions, exec database.Executor, metrics *telemetry.Metrics) *history.Store {
	storeOpts := []history.Option{
		history.WithBatchSize(opts.Config.BatchSize),
		history.WithClock(opts.clock()),
		history.WithMetrics(metrics),
		history.WithLogger(slog.Default()),
	}
	if opts.Config.RetentionPeriod > 0 {
		storeOpts = append(storeOpts, history.WithRetentionPeriod(opts.Config.RetentionPeriod))
	}
	return history.NewStore(exec, storeOpts...)
}

// withStore opens the database, runs fn against a store and closes the
// database.
func withStore(opts *RootOptions, fn func(*history.Store) error) error {
	engine, err := openEngine(opts, nil)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	return fn(newStore(opts, engine, nil))
}

// parseTimeFlag parses an RFC 3339 flag value. An empty value yields
// fallback.
func parseTimeFlag(name, value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid --%s %q: expected RFC 3339, e.g. 2024-01-01T00:00:00Z", name, value))
	}
	return t, nil
}

// writeEvents renders events as an aligned table.
func writeEvents(w io.Writer, events []ad.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No ad history found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED AT\tTYPE\tCONFIRMATION\tPLACEMENT\tCREATIVE INSTANCE\tTARGET URL")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339), e.Type, e.ConfirmationType,
			e.PlacementID, e.CreativeInstanceID, e.TargetURL)
	}
	tw.Flush()
}
