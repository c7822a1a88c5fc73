package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/config"
	"github.com/roach88/adhistory/internal/history"
)

// RootOptions holds global flags and settings shared by all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // overrides Config.DatabasePath when set

	// Config is loaded from ADHISTORY_* variables by the root command.
	// Commands built directly (as in tests) use zero values, which fall
	// back to the store defaults.
	Config config.Config

	// Clock allows overriding the wall clock (for testing).
	// If nil, defaults to history.SystemClock.
	Clock history.Clock

	// Generator allows overriding placement id generation (for testing).
	// If nil, defaults to ad.UUIDv7Generator.
	Generator ad.PlacementIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the adhistory CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "adhistory",
		Short: "Ad interaction history store",
		Long: `Record ad interactions, query them by date or creative, rank placements
by their most significant confirmation and purge expired history.

Settings are read from ADHISTORY_* environment variables; flags override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg

			configureLogging(opts, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $ADHISTORY_DATABASE_PATH)")

	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewRankedCommand(opts))
	cmd.AddCommand(NewCreativeCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))

	return cmd
}

// configureLogging installs a text handler on w. --verbose forces debug;
// otherwise the configured level applies.
func configureLogging(opts *RootOptions, w io.Writer) {
	level, err := opts.Config.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
