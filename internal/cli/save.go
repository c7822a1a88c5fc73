package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/adhistory/internal/eventfile"
	"github.com/roach88/adhistory/internal/history"
)

// SaveResult reports a save.
type SaveResult struct {
	File    string `json:"file"`
	Events  int    `json:"events"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Append ad events from a YAML or JSON file",
		Long: `Append the events of a YAML or JSON file to the ad history.

The file must hold a top-level "events" list. Events that fail validation
(for example a relative target_url) are skipped and reported; the rest are
saved in a single transaction.

Example:
  adhistory save --db ./ads.db events.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSave(opts *RootOptions, file string, cmd *cobra.Command) error {
	loader, err := eventfile.NewLoader(eventfile.WithGenerator(opts.generator()))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load event schema", err)
	}

	events, err := loader.LoadEvents(file)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load events", err)
	}

	result := SaveResult{File: file, Events: len(events)}
	for _, e := range events {
		if e.IsValid() {
			result.Saved++
		}
	}
	result.Skipped = result.Events - result.Saved

	err = withStore(opts, func(s *history.Store) error {
		return s.Save(context.Background(), events)
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to save events", err)
	}

	return opts.formatter(cmd).Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Saved %d of %d events from %s", result.Saved, result.Events, file)
		if result.Skipped > 0 {
			fmt.Fprintf(w, " (%d invalid skipped)", result.Skipped)
		}
		fmt.Fprintln(w)
	})
}
