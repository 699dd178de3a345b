package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/cli"
	"github.com/theirongolddev/sessmeter/internal/config"
	"github.com/theirongolddev/sessmeter/internal/store"
)

var (
	flagHistoryProject string
	flagHistoryLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryProject, "project", "", "Only runs saved under this results label")
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum number of runs (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	h, err := store.Open(config.HistoryPath(cfg))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = h.Close() }()

	runs, err := h.ListRuns(store.RunFilter{Project: flagHistoryProject, Limit: flagHistoryLimit})
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if flagFormat != cli.FormatText {
		return cli.Export(os.Stdout, flagFormat, runs)
	}

	if len(runs) == 0 {
		fmt.Println("  No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		saved := "-"
		if r.Project != "" {
			saved = r.Project + " #" + strconv.Itoa(r.Phase)
		}
		rows = append(rows, []string{
			r.AnalyzedAt.Local().Format("2006-01-02 15:04"),
			r.SessionID,
			saved,
			cli.FormatNumber(r.Metrics.GrandTotal()),
			cli.FormatInt(r.Metrics.ToolCalls),
			cli.FormatInt(r.Metrics.UserMessages),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "History",
		Headers: []string{"When", "Session", "Saved", "Tokens", "Tools", "Turns"},
		Rows:    rows,
	}))
	return nil
}
