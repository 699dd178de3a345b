package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/cli"
	"github.com/theirongolddev/sessmeter/internal/report"
)

var totalsCmd = &cobra.Command{
	Use:   "totals <label>",
	Short: "Recompute the Total Summary of a results document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTotals,
}

func init() {
	rootCmd.AddCommand(totalsCmd)
}

func runTotals(_ *cobra.Command, args []string) error {
	sr, err := report.UpdateTotalsFile(flagResultsDir, args[0])
	if err != nil {
		return err
	}

	if flagFormat != cli.FormatText {
		return cli.Export(os.Stdout, flagFormat, sr.Totals)
	}

	if !sr.TotalsUpdated {
		fmt.Printf("  %s\n", cli.RenderWarn(fmt.Sprintf("No %q section in %s; nothing written.", report.TotalsHeading, sr.Path)))
		fmt.Println()
	} else {
		fmt.Printf("  Total summary updated in %s\n\n", sr.Path)
	}
	fmt.Print(cli.RenderTotals(sr.Totals))
	return nil
}
