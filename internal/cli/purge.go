package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/adhistory/internal/history"
)

// PurgeResult reports a purge.
type PurgeResult struct {
	Cutoff          time.Time `json:"cutoff"`
	RetentionPeriod string    `json:"retention_period"`
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete ad events older than the retention period",
		Long: `Delete every ad event created at or before now minus the retention period
($ADHISTORY_RETENTION_PERIOD, default 720h). Running it again is a no-op.

Example:
  ADHISTORY_RETENTION_PERIOD=168h adhistory purge --db ./ads.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(rootOpts, cmd)
		},
	}
	return cmd
}

func runPurge(opts *RootOptions, cmd *cobra.Command) error {
	var result PurgeResult
	err := withStore(opts, func(s *history.Store) error {
		result = PurgeResult{
			Cutoff:          opts.clock().Now().Add(-s.RetentionPeriod()).UTC(),
			RetentionPeriod: s.RetentionPeriod().String(),
		}
		return s.PurgeExpired(context.Background())
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to purge ad history", err)
	}

	return opts.formatter(cmd).Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Purged ad history created at or before %s (retention %s)\n",
			result.Cutoff.Format(time.RFC3339), result.RetentionPeriod)
	})
}
