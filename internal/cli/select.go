package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/adhistory/internal/eventfile"
	"github.com/roach88/adhistory/internal/priority"
)

// SelectResult reports the selected tier and every bucket.
type SelectResult struct {
	Selected []string       `json:"selected"`
	Buckets  []BucketResult `json:"buckets"`
}

// BucketResult is one priority bucket.
type BucketResult struct {
	Priority   int      `json:"priority"`
	Candidates []string `json:"candidates"`
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <file>",
		Short: "Pick the highest-priority candidates from a file",
		Long: `Group the candidates of a YAML or JSON file by priority and print the
most preferred tier. Lower priorities are preferred; priority 0 means the
candidate is ineligible.

The file must hold a top-level "candidates" list of {id, priority}.

Example:
  adhistory select candidates.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSelect(opts *RootOptions, file string, cmd *cobra.Command) error {
	loader, err := eventfile.NewLoader()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load candidate schema", err)
	}

	candidates, err := loader.LoadCandidates(file)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load candidates", err)
	}

	selected := priority.HighestPriorityCandidates(candidates,
		priority.WithReporter(priority.LogReporter{Logger: slog.Default()}))

	result := SelectResult{
		Selected: candidateIDs(selected),
		Buckets:  []BucketResult{},
	}
	priority.SortIntoBucketsByPriority(candidates).Each(func(p int, cs []eventfile.Candidate) {
		result.Buckets = append(result.Buckets, BucketResult{Priority: p, Candidates: candidateIDs(cs)})
	})

	return opts.formatter(cmd).Success(result, func(w io.Writer) {
		if len(result.Selected) == 0 {
			fmt.Fprintln(w, "No eligible candidates.")
			return
		}
		fmt.Fprintf(w, "Selected: %s\n", strings.Join(result.Selected, ", "))
		for _, b := range result.Buckets {
			fmt.Fprintf(w, "  priority %d: %s\n", b.Priority, strings.Join(b.Candidates, ", "))
		}
	})
}

func candidateIDs(cs []eventfile.Candidate) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}
