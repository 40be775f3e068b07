package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lint runs",
		Long: `List recent runs recorded in the run history database.

Runs are recorded when history is enabled (--history or history.enabled in
leaplint.yaml).`,
		Example: `  # Show the last 20 runs
  leaplint history --history

  # Show the last 5 runs as JSON
  leaplint history --history --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			if !cc.Cfg.History.Enabled {
				return fmt.Errorf("run history is disabled; enable it with --history or history.enabled")
			}

			store, err := cc.OpenHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderHistory(cc.Renderer, runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", state.DefaultListLimit, "Number of runs to show")
	return cmd
}

func renderHistory(r *output.Renderer, runs []*state.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.HistoryOutput{Runs: runs})
	}

	r.Header(1, "Run history")
	if len(runs) == 0 {
		r.Muted("No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			run.Source,
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Errors),
			strconv.Itoa(run.Warnings),
			strconv.Itoa(run.Info),
			(time.Duration(run.DurationMS) * time.Millisecond).String(),
		})
	}
	r.Table([]string{"Run", "Started", "Source", "Issues", "Errors", "Warnings", "Info", "Duration"}, rows)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
