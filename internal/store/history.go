// Package store provides a SQLite-backed history of analysed sessions.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/sessmeter/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so analyzed_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// History records every analysis run.
type History struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores a run and its per-tool counts. A missing ID or timestamp is
// filled in; the stored run is returned.
func (h *History) SaveRun(r model.Run) (model.Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.AnalyzedAt.IsZero() {
		r.AnalyzedAt = time.Now()
	}

	tx, err := h.db.Begin()
	if err != nil {
		return r, err
	}
	defer func() { _ = tx.Rollback() }()

	m := r.Metrics
	_, err = tx.Exec(`INSERT OR REPLACE INTO runs
		(run_id, session_id, file_path, project, phase, analyzed_at,
		 input_tokens, output_tokens, cache_creation, cache_read,
		 api_calls, user_messages, assistant_messages, tool_calls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.FilePath, r.Project, r.Phase, r.AnalyzedAt.UTC().Format(timeLayout),
		m.InputTokens, m.OutputTokens, m.CacheCreationTokens, m.CacheReadTokens,
		m.APICalls, m.UserMessages, m.AssistantMessages, m.ToolCalls,
	)
	if err != nil {
		return r, err
	}

	if _, err = tx.Exec("DELETE FROM run_tools WHERE run_id = ?", r.ID); err != nil {
		return r, err
	}
	for tool, calls := range m.ToolTypes {
		_, err = tx.Exec(`INSERT INTO run_tools (run_id, tool, calls) VALUES (?, ?, ?)`, r.ID, tool, calls)
		if err != nil {
			return r, err
		}
	}

	return r, tx.Commit()
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Project string // exact results label; empty matches all
	Limit   int    // <= 0 means no limit
}

// ListRuns returns recorded runs, most recent first.
func (h *History) ListRuns(f RunFilter) ([]model.Run, error) {
	query := `SELECT
		run_id, session_id, file_path, project, phase, analyzed_at,
		input_tokens, output_tokens, cache_creation, cache_read,
		api_calls, user_messages, assistant_messages, tool_calls
		FROM runs`
	var args []any
	if f.Project != "" {
		query += " WHERE project = ?"
		args = append(args, f.Project)
	}
	query += " ORDER BY analyzed_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var project sql.NullString
		var analyzedAt string

		err := rows.Scan(
			&r.ID, &r.SessionID, &r.FilePath, &project, &r.Phase, &analyzedAt,
			&r.Metrics.InputTokens, &r.Metrics.OutputTokens,
			&r.Metrics.CacheCreationTokens, &r.Metrics.CacheReadTokens,
			&r.Metrics.APICalls, &r.Metrics.UserMessages,
			&r.Metrics.AssistantMessages, &r.Metrics.ToolCalls,
		)
		if err != nil {
			return nil, err
		}
		if project.Valid {
			r.Project = project.String
		}
		r.AnalyzedAt, _ = time.Parse(timeLayout, analyzedAt)
		r.Metrics.ToolTypes = make(map[string]int)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := h.loadTools(runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// toolBatch bounds the IN list below SQLite's bound-parameter limit.
const toolBatch = 500

// loadTools batch-loads per-tool counts into runs.
func (h *History) loadTools(runs []model.Run) error {
	idx := make(map[string]int, len(runs))
	for i, r := range runs {
		idx[r.ID] = i
	}

	for start := 0; start < len(runs); start += toolBatch {
		batch := runs[start:min(start+toolBatch, len(runs))]
		args := make([]any, len(batch))
		for i, r := range batch {
			args[i] = r.ID
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		if err := h.scanTools(runs, idx,
			"SELECT run_id, tool, calls FROM run_tools WHERE run_id IN ("+placeholders+")", args...); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) scanTools(runs []model.Run, idx map[string]int, query string, args ...any) error {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id, tool string
		var calls int
		if err := rows.Scan(&id, &tool, &calls); err != nil {
			return err
		}
		if i, ok := idx[id]; ok {
			runs[i].Metrics.ToolTypes[tool] = calls
		}
	}
	return rows.Err()
}

// DeleteRun removes a run and its tool counts.
func (h *History) DeleteRun(id string) error {
	_, err := h.db.Exec("DELETE FROM runs WHERE run_id = ?", id)
	return err
}

// RunCount returns the number of recorded runs.
func (h *History) RunCount() (int, error) {
	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}
