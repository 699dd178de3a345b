package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrProjectsDirMissing is returned when <claudeDir>/projects does not exist.
var ErrProjectsDirMissing = errors.New("claude projects directory not found")

// NoSessionsError is returned when no session file matches a project filter.
type NoSessionsError struct {
	Project   string
	Available []string // project directory names that do exist
}

func (e *NoSessionsError) Error() string {
	return fmt.Sprintf("no session files found for project %q", e.Project)
}

// ProjectsDir returns the directory Claude Code writes per-project logs into.
func ProjectsDir(claudeDir string) string {
	return filepath.Join(claudeDir, "projects")
}

// ListProjects returns the names of all project directories, sorted.
func ListProjects(claudeDir string) ([]string, error) {
	entries, err := os.ReadDir(ProjectsDir(claudeDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProjectsDirMissing, ProjectsDir(claudeDir))
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindSessions returns the session files directly inside every project
// directory whose name contains project (case-insensitive).
func FindSessions(claudeDir, project string) ([]DiscoveredFile, error) {
	dirs, err := ListProjects(claudeDir)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(project)
	var files []DiscoveredFile

	for _, dir := range dirs {
		if !strings.Contains(strings.ToLower(dir), needle) {
			continue
		}

		matches, err := filepath.Glob(filepath.Join(ProjectsDir(claudeDir), dir, "*.jsonl"))
		if err != nil {
			return nil, err
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			files = append(files, DiscoveredFile{
				Path:       path,
				Project:    decodeProjectName(dir),
				ProjectDir: dir,
				SessionID:  SessionIDFromPath(path),
				ModTime:    info.ModTime().UnixNano(),
			})
		}
	}

	if len(files) == 0 {
		return nil, &NoSessionsError{Project: project, Available: dirs}
	}
	return files, nil
}

// FindLatest returns the most recently modified session for project.
func FindLatest(claudeDir, project string) (DiscoveredFile, error) {
	files, err := FindSessions(claudeDir, project)
	if err != nil {
		return DiscoveredFile{}, err
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime != files[j].ModTime {
			return files[i].ModTime > files[j].ModTime
		}
		return files[i].Path < files[j].Path
	})
	return files[0], nil
}

// decodeProjectName extracts a human-readable project name from the encoded directory name.
// Claude Code encodes absolute paths by replacing "/" with "-", so:
//
//	"-Users-alice-projects-CleanCode" -> "CleanCode"
//	"-Users-alice-projects-my-cool-project" -> "my-cool-project"
//
// We find the last known path component ("projects", "repos", "src", "code", "home")
// and take everything after it. Falls back to the last non-empty segment.
func decodeProjectName(dirName string) string {
	parts := strings.Split(dirName, "-")

	knownParents := map[string]bool{
		"projects": true, "repos": true, "src": true,
		"code": true, "workspace": true, "dev": true,
	}

	for i := len(parts) - 2; i >= 0; i-- {
		if knownParents[strings.ToLower(parts[i])] {
			name := strings.Join(parts[i+1:], "-")
			if name != "" {
				return name
			}
		}
	}

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}

	return dirName
}
