package source

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFindLatest_NewestMatchingFile(t *testing.T) {
	claudeDir := t.TempDir()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	clean := filepath.Join(claudeDir, "projects", "-Users-alice-projects-CleanCode")
	messy := filepath.Join(claudeDir, "projects", "-Users-alice-projects-messyCode")

	touch(t, filepath.Join(clean, "old.jsonl"), base)
	touch(t, filepath.Join(clean, "new.jsonl"), base.Add(time.Hour))
	touch(t, filepath.Join(messy, "newest.jsonl"), base.Add(2*time.Hour))
	touch(t, filepath.Join(clean, "nested", "deep.jsonl"), base.Add(3*time.Hour))

	df, err := FindLatest(claudeDir, "cleancode")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if df.SessionID != "new" {
		t.Errorf("SessionID = %q, want new", df.SessionID)
	}
	if df.Project != "CleanCode" {
		t.Errorf("Project = %q, want CleanCode", df.Project)
	}
}

func TestFindLatest_NoMatch(t *testing.T) {
	claudeDir := t.TempDir()
	touch(t, filepath.Join(claudeDir, "projects", "-home-bob-code-api", "s.jsonl"), time.Now())

	_, err := FindLatest(claudeDir, "frontend")
	var nse *NoSessionsError
	if !errors.As(err, &nse) {
		t.Fatalf("err = %v, want *NoSessionsError", err)
	}
	if len(nse.Available) != 1 || nse.Available[0] != "-home-bob-code-api" {
		t.Errorf("Available = %v", nse.Available)
	}
}

func TestFindLatest_MissingProjectsDir(t *testing.T) {
	_, err := FindLatest(t.TempDir(), "x")
	if !errors.Is(err, ErrProjectsDirMissing) {
		t.Errorf("err = %v, want ErrProjectsDirMissing", err)
	}
}

func TestDecodeProjectName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"-Users-alice-projects-gitlore", "gitlore"},
		{"-Users-alice-projects-my-cool-project", "my-cool-project"},
		{"-home-bob-code-api", "api"},
		{"-tmp-scratch", "scratch"},
	}
	for _, tt := range tests {
		if got := decodeProjectName(tt.in); got != tt.want {
			t.Errorf("decodeProjectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
