package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/cli"
	"github.com/theirongolddev/sessmeter/internal/config"
	"github.com/theirongolddev/sessmeter/internal/logging"
	"github.com/theirongolddev/sessmeter/internal/model"
	"github.com/theirongolddev/sessmeter/internal/pipeline"
	"github.com/theirongolddev/sessmeter/internal/report"
	"github.com/theirongolddev/sessmeter/internal/source"
	"github.com/theirongolddev/sessmeter/internal/store"
	"github.com/theirongolddev/sessmeter/internal/tui/theme"
)

var (
	flagDataDir    string
	flagResultsDir string
	flagFormat     string
	flagVerbose    bool
	flagNoHistory  bool

	flagLatest string
	flagSave   string
	flagPhase  int
)

// cfg is loaded once before any command runs.
var cfg = config.DefaultConfig()

var log = logging.NewLogger("cmd")

var errNoSessionFile = errors.New("no session file specified")

var rootCmd = &cobra.Command{
	Use:   "sessmeter [session.jsonl]",
	Short: "Claude Code session usage meter",
	Long: `Analyze a Claude Code session log: token usage, activity and tool calls.

With --save the metrics are written into <results-dir>/<label>.md under the
phase heading, and the document's Total Summary is recomputed.`,
	Example: `  sessmeter ~/.claude/projects/-home-me-CleanCode/abc.jsonl
  sessmeter abc.jsonl --save clean 1
  sessmeter --latest CleanCode --save clean 1
  sessmeter --latest messyCode --save messy --phase 2`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runAnalyze,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDataDir, "data-dir", "d", "", "Claude data directory (default ~/.claude)")
	pf.StringVarP(&flagResultsDir, "results-dir", "r", "", "Directory holding <label>.md results documents")
	pf.StringVarP(&flagFormat, "format", "f", "", "Output format: text, json or yaml")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
	pf.BoolVar(&flagNoHistory, "no-history", false, "Do not record this analysis in the history database")

	rootCmd.Flags().StringVarP(&flagLatest, "latest", "l", "", "Analyze the newest session of the matching project")
	rootCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save metrics into <results-dir>/<label>.md")
	rootCmd.Flags().IntVarP(&flagPhase, "phase", "p", 0, "Phase number for --save (or pass it after the label)")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	logging.SetVerbose(flagVerbose)

	loaded, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("Using default configuration")
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	if flagDataDir == "" {
		flagDataDir = config.ClaudeDir(cfg)
	}
	if flagResultsDir == "" {
		flagResultsDir = config.ResultsDir(cfg)
	}
	if flagFormat == "" {
		flagFormat = cfg.General.DefaultFormat
	}
	if flagFormat == "" {
		flagFormat = cli.FormatText
	}
	if !cli.ValidFormat(flagFormat) {
		return fmt.Errorf("invalid --format %q (want text, json or yaml)", flagFormat)
	}
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// analyzeArgs is the resolved positional form of the root command.
type analyzeArgs struct {
	File  string
	Label string
	Phase int
}

// parseAnalyzeArgs splits positionals into the session file and, when saving
// without --phase, the phase number: the first integer positional, so the
// phase may come before or after the file.
func parseAnalyzeArgs(args []string, latest, label string, phase int) (analyzeArgs, error) {
	out := analyzeArgs{Label: label, Phase: phase}

	if label != "" && phase == 0 {
		i := slices.IndexFunc(args, func(a string) bool {
			_, err := strconv.Atoi(a)
			return err == nil
		})
		if i < 0 {
			return out, errors.New("--save needs a phase: --save <label> <phase>")
		}
		out.Phase, _ = strconv.Atoi(args[i])
		args = slices.Delete(slices.Clone(args), i, i+1)
	}
	if label == "" && phase != 0 {
		return out, errors.New("--phase requires --save <label>")
	}
	if label != "" && out.Phase <= 0 {
		return out, fmt.Errorf("invalid phase %d: must be positive", out.Phase)
	}

	switch {
	case len(args) > 1:
		return out, fmt.Errorf("unexpected arguments: %v", args[1:])
	case len(args) == 1 && latest != "":
		return out, errors.New("pass either a session file or --latest, not both")
	case len(args) == 1:
		out.File = args[0]
	case latest == "":
		return out, errNoSessionFile
	}
	return out, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && flagLatest == "" && flagSave == "" {
		_ = cmd.Help()
		return errNoSessionFile
	}

	a, err := parseAnalyzeArgs(args, flagLatest, flagSave, flagPhase)
	if err != nil {
		return err
	}

	if a.File == "" {
		a.File, err = resolveLatest(flagLatest)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Using latest session: %s\n", a.File)
	}

	res, err := analyzeFile(a.File)
	if err != nil {
		return err
	}

	if err := printSession(res); err != nil {
		return err
	}

	if a.Label != "" {
		if err := saveResults(a.Label, a.Phase, res.Metrics); err != nil {
			return err
		}
	}

	recordRun(res, a.Label, a.Phase)
	return nil
}

// resolveLatest finds the newest session of the project matching substr,
// listing the available projects when nothing matches.
func resolveLatest(substr string) (string, error) {
	f, err := source.FindLatest(flagDataDir, substr)
	if err == nil {
		return f.Path, nil
	}

	var nse *source.NoSessionsError
	if errors.As(err, &nse) && len(nse.Available) > 0 {
		fmt.Fprintln(os.Stderr, "  Available projects:")
		for _, p := range nse.Available {
			fmt.Fprintf(os.Stderr, "    %s\n", p)
		}
	}
	return "", err
}

func analyzeFile(path string) (*pipeline.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return pipeline.Analyze(path)
}

func printSession(res *pipeline.Result) error {
	if flagFormat != cli.FormatText {
		return cli.Export(os.Stdout, flagFormat, cli.NewSessionSummary(res.SessionID, res.FilePath, res.Metrics))
	}
	fmt.Print(cli.RenderSessionReport(res.SessionID, res.FilePath, res.Metrics))
	return nil
}

func saveResults(label string, phase int, m model.SessionMetrics) error {
	if !report.IsRegistered(phase) {
		log.WithField("phase", phase).Debug("Unregistered phase, matching heading " + report.PhaseHeading(phase))
	}
	sr, err := report.SaveResults(flagResultsDir, label, phase, m)
	if err != nil {
		var snf *report.SectionNotFoundError
		if errors.As(err, &snf) {
			fmt.Fprintf(os.Stderr, "  Available phases: %v\n", report.Phases())
		}
		return err
	}

	// Status lines go to stderr so --format output stays parseable.
	out := os.Stdout
	if flagFormat != cli.FormatText {
		out = os.Stderr
	}
	fmt.Fprintf(out, "  %s\n", cli.RenderOK(fmt.Sprintf("Results saved to %s (Phase %d: %s)",
		sr.Path, phase, report.PhaseLabel(phase))))
	fmt.Fprintf(out, "  %s\n", cli.RenderMuted("Fill in Build Success / API Test Pass / Manual Fix Required (Y/N) by hand."))
	if !sr.TableReplaced {
		fmt.Fprintf(out, "  %s\n", cli.RenderWarn("No metrics table found under "+sr.Heading+"; section left unchanged."))
	}
	if sr.TotalsUpdated {
		fmt.Fprintf(out, "  Total summary updated in %s\n\n", sr.Path)
		fmt.Fprint(out, cli.RenderTotals(sr.Totals))
	}
	return nil
}

// recordRun stores the analysis in the history database. Failures are logged
// and never fail the command.
func recordRun(res *pipeline.Result, label string, phase int) {
	if flagNoHistory || !cfg.History.Enabled {
		return
	}

	h, err := store.Open(config.HistoryPath(cfg))
	if err != nil {
		log.WithError(err).Warn("History unavailable")
		return
	}
	defer func() { _ = h.Close() }()

	run, err := h.SaveRun(model.Run{
		SessionID: res.SessionID,
		FilePath:  res.FilePath,
		Project:   label,
		Phase:     phase,
		Metrics:   res.Metrics,
	})
	if err != nil {
		log.WithError(err).Warn("Could not record run")
		return
	}
	log.WithField("run", run.ID).Debug("Recorded run")
}
