package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/proc-sim/internal/store"
)

var (
	historyDBPath string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded simulation runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore(cmd.Context(), historyDBPath)
		if err != nil {
			logrus.Fatalf("Failed to open run history: %v", err)
		}
		defer st.Close()
		if err := printHistory(cmd.Context(), os.Stdout, st, historyLimit); err != nil {
			logrus.Fatalf("Failed to list runs: %v", err)
		}
	},
}

// printHistory writes up to limit runs from st as a table.
func printHistory(ctx context.Context, w io.Writer, st store.Store, limit int) error {
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.ID[:min(8, len(run.ID))],
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Params.String(),
			fmt.Sprint(len(run.Completions)),
			fmt.Sprint(run.TotalTicks),
			fmt.Sprint(run.IdleTicks),
			fmt.Sprintf("%.2f", run.MeanTurnaround),
			fmt.Sprintf("%.2f", run.MeanNormalizedTurnaround),
		}
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Run", "Created", "Policy", "Processes", "Ticks", "Idle", "Mean Turnaround", "Mean Normalized"})
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "db", "proc-sim.db", "SQLite database holding the run history")
	historyCmd.Flags().IntVar(&historyLimit, "limit", store.DefaultListLimit, "Maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}
