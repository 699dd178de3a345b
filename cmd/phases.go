package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/cli"
	"github.com/theirongolddev/sessmeter/internal/report"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "List the known phases and their section headings",
	Args:  cobra.NoArgs,
	RunE:  runPhases,
}

func init() {
	rootCmd.AddCommand(phasesCmd)
}

func runPhases(_ *cobra.Command, _ []string) error {
	rollup := make(map[int]bool, len(report.RollupPhases))
	for _, p := range report.RollupPhases {
		rollup[p] = true
	}

	var rows [][]string
	for _, p := range report.Phases() {
		inTotals := ""
		if rollup[p] {
			inTotals = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(p), report.PhaseLabel(p), inTotals})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Phases",
		Headers: []string{"#", "Label", "Totals"},
		Rows:    rows,
	}))
	fmt.Printf("  %s\n", cli.RenderMuted("Sections are matched by heading prefix, e.g. \""+report.PhaseHeading(1)+"\"."))
	return nil
}
