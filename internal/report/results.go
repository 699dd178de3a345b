package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/sessmeter/internal/logging"
	"github.com/theirongolddev/sessmeter/internal/model"
)

var log = logging.NewLogger("report")

// ErrResultsNotFound is returned when a project's results file is missing.
var ErrResultsNotFound = errors.New("results file not found")

// SaveResult describes what SaveResults changed.
type SaveResult struct {
	Path          string
	Heading       string
	TableReplaced bool
	TotalsUpdated bool
	Totals        model.PhaseTotals
}

// ResultsPath returns <dir>/<project>.md.
func ResultsPath(dir, project string) string {
	return filepath.Join(dir, project+".md")
}

// SaveResults writes m into the phase section of the project's results file
// and refreshes its Total Summary. The file is rewritten once.
func SaveResults(dir, project string, phase int, m model.SessionMetrics) (*SaveResult, error) {
	path := ResultsPath(dir, project)
	doc, perm, err := readResults(path)
	if err != nil {
		return nil, err
	}

	res := &SaveResult{Path: path, Heading: PhaseHeading(phase)}

	res.TableReplaced, err = doc.UpdatePhase(phase, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !res.TableReplaced {
		log.WithField("file", path).WithField("section", res.Heading).
			Warn("No Metric/Notes table in section, left unchanged")
	}

	res.Totals, res.TotalsUpdated = doc.RecomputeTotals()

	if err := os.WriteFile(path, []byte(doc.String()), perm); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

// UpdateTotalsFile refreshes only the Total Summary of a project's results
// file. The file is not rewritten when it has no Total Summary section.
func UpdateTotalsFile(dir, project string) (*SaveResult, error) {
	path := ResultsPath(dir, project)
	doc, perm, err := readResults(path)
	if err != nil {
		return nil, err
	}

	res := &SaveResult{Path: path, Heading: TotalsHeading}
	res.Totals, res.TotalsUpdated = doc.RecomputeTotals()
	if !res.TotalsUpdated {
		return res, nil
	}

	if err := os.WriteFile(path, []byte(doc.String()), perm); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return res, nil
}

func readResults(path string) (*Document, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrResultsNotFound, path)
		}
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data)), info.Mode().Perm(), nil
}
