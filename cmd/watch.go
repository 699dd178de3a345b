package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/sessmeter/internal/watch"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [session.jsonl]",
	Short: "Re-analyze a session every time it is written to",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&flagLatest, "latest", "l", "", "Watch the newest session of the matching project")
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-analyzing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	path, err := watchTarget(args)
	if err != nil {
		return err
	}

	w, err := watch.New(path, flagDebounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := func() {
		res, err := analyzeFile(path)
		if err != nil {
			log.WithError(err).Warn("Analyze failed")
			return
		}
		if err := printSession(res); err != nil {
			log.WithError(err).Warn("Render failed")
		}
	}

	render()
	fmt.Fprintf(os.Stderr, "  Watching %s (Ctrl+C to stop)\n", path)
	return w.Run(ctx, render)
}

func watchTarget(args []string) (string, error) {
	switch {
	case len(args) == 1 && flagLatest != "":
		return "", errors.New("pass either a session file or --latest, not both")
	case len(args) == 1:
		return args[0], nil
	case flagLatest != "":
		return resolveLatest(flagLatest)
	default:
		return "", errNoSessionFile
	}
}
