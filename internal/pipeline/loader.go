package pipeline

import (
	"github.com/theirongolddev/sessmeter/internal/logging"
	"github.com/theirongolddev/sessmeter/internal/model"
	"github.com/theirongolddev/sessmeter/internal/source"
)

var log = logging.NewLogger("pipeline")

// Result holds the output of analysing a single session file.
type Result struct {
	SessionID string
	FilePath  string
	Lines     int
	Skipped   int
	Metrics   model.SessionMetrics
}

// Analyze reads a session log and aggregates it.
func Analyze(path string) (*Result, error) {
	rr, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if rr.Skipped > 0 {
		log.WithField("file", path).WithField("skipped", rr.Skipped).Debug("Skipped malformed lines")
	}

	return &Result{
		SessionID: source.SessionIDFromPath(path),
		FilePath:  path,
		Lines:     rr.Lines,
		Skipped:   rr.Skipped,
		Metrics:   Aggregate(rr.Entries),
	}, nil
}
