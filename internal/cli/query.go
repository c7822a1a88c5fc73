package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/history"
)

// RangeOptions holds the date range flags of history and ranked.
type RangeOptions struct {
	*RootOptions
	From string
	To   string
}

func (o *RangeOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.From, "from", "", "start of range, RFC 3339 (default: beginning of time)")
	cmd.Flags().StringVar(&o.To, "to", "", "end of range, RFC 3339 (default: now)")
}

// bounds resolves the flags to an inclusive range.
func (o *RangeOptions) bounds() (time.Time, time.Time, error) {
	from, err := parseTimeFlag("from", o.From, time.Unix(0, 0))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTimeFlag("to", o.To, o.clock().Now())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RangeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List ad events in a date range",
		Long: `List every ad event created within an inclusive date range, most recent
first.

Examples:
  adhistory history --db ./ads.db
  adhistory history --db ./ads.db --from 2024-01-01T00:00:00Z --to 2024-01-31T23:59:59Z`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRangeQuery(opts, cmd, (*history.Store).GetForDateRange)
		},
	}
	opts.bind(cmd)

	return cmd
}

// NewRankedCommand creates the ranked command.
func NewRankedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RangeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ranked",
		Short: "List each placement's most significant interaction",
		Long: `For every placement with events in the date range, list the events at its
most significant confirmation: click, then dismiss, then view. Placements
that were only served are omitted.

Example:
  adhistory ranked --db ./ads.db --from 2024-01-01T00:00:00Z`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRangeQuery(opts, cmd, (*history.Store).GetHighestRankedPlacementsForDateRange)
		},
	}
	opts.bind(cmd)

	return cmd
}

type rangeQuery func(s *history.Store, ctx context.Context, from, to time.Time) ([]ad.Event, error)

func runRangeQuery(opts *RangeOptions, cmd *cobra.Command, query rangeQuery) error {
	from, to, err := opts.bounds()
	if err != nil {
		return err
	}

	var events []ad.Event
	err = withStore(opts.RootOptions, func(s *history.Store) error {
		events, err = query(s, context.Background(), from, to)
		return err
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to get ad history", err)
	}

	return opts.formatter(cmd).Success(events, func(w io.Writer) {
		writeEvents(w, events)
	})
}

// NewCreativeCommand creates the creative command.
func NewCreativeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creative <creative-instance-id>",
		Short: "List every ad event for a creative instance",
		Long: `List every ad event recorded for one creative instance, regardless of date.

Example:
  adhistory creative --db ./ads.db 546fe7b0-5047-4f28-a11c-81f14edcf0f6`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreative(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCreative(opts *RootOptions, creativeInstanceID string, cmd *cobra.Command) error {
	var events []ad.Event
	err := withStore(opts, func(s *history.Store) error {
		var err error
		events, err = s.GetForCreativeInstanceID(context.Background(), creativeInstanceID)
		return err
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to get ad history", err)
	}

	return opts.formatter(cmd).Success(events, func(w io.Writer) {
		writeEvents(w, events)
	})
}
