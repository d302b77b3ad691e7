package discover

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Marker records why a directory was classified as a sub-project.
type Marker string

const (
	MarkerRequirements Marker = "requirements-file"
	MarkerBuildFile    Marker = "build-manifest"
	MarkerLooseFiles   Marker = "loose-python-files"
)

// SubProject is a discovered unit of Python code within a workspace.
// Name is relative to the workspace root and uses forward slashes on
// every platform.
type SubProject struct {
	Name    string   `json:"name"`
	AbsPath string   `json:"path"`
	Markers []Marker `json:"markers"`
}

// skipDirs are never scanned, at any depth.
var skipDirs = map[string]bool{
	"tools":         true,
	"out":           true,
	"__pycache__":   true,
	"node_modules":  true,
	".venv":         true,
	"venv":          true,
	".git":          true,
	".github":       true,
	".vscode":       true,
	".devcontainer": true,
}

// Discover partitions the workspace below root into sub-projects.
//
// A directory qualifies when it directly contains a requirements*.txt
// file or a pyproject.toml, or, failing both, at least one .py file.
// A qualifying directory is never scanned for nested projects below it,
// so results never overlap. The root itself is never a candidate.
// Results are sorted lexicographically by Name.
func Discover(root string, exclude []string) ([]SubProject, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	var projects []SubProject
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("reading workspace root: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || skipped(e.Name(), exclude) {
			continue
		}
		walk(filepath.Join(abs, e.Name()), e.Name(), exclude, &projects)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// walk classifies dir and either records it or descends into its children.
// Unreadable directories contribute nothing.
func walk(dir, name string, exclude []string, projects *[]SubProject) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if markers := classify(entries); len(markers) > 0 {
		*projects = append(*projects, SubProject{Name: name, AbsPath: dir, Markers: markers})
		return
	}

	for _, e := range entries {
		if !e.IsDir() || skipped(e.Name(), exclude) {
			continue
		}
		walk(filepath.Join(dir, e.Name()), path.Join(name, e.Name()), exclude, projects)
	}
}

// classify returns the markers that qualify a directory as a project, in
// fixed order. Loose .py files only count when no manifest of either kind
// is present.
func classify(entries []os.DirEntry) []Marker {
	var hasReq, hasBuild, hasPy bool
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case IsRequirementsFile(name):
			hasReq = true
		case name == BuildManifest:
			hasBuild = true
		case strings.HasSuffix(name, ".py"):
			hasPy = true
		}
	}

	var markers []Marker
	if hasReq {
		markers = append(markers, MarkerRequirements)
	}
	if hasBuild {
		markers = append(markers, MarkerBuildFile)
	}
	if len(markers) == 0 && hasPy {
		markers = append(markers, MarkerLooseFiles)
	}
	return markers
}

// BuildManifest is the structured build-metadata file name.
const BuildManifest = "pyproject.toml"

// IsRequirementsFile reports whether name follows the requirements
// manifest naming convention (requirements*.txt).
func IsRequirementsFile(name string) bool {
	return strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt")
}

// skipped reports whether a directory name is excluded from discovery:
// hidden, in the fixed skip set, or matching a configured exclude pattern.
// Patterns are matched by substring after stripping wildcard characters,
// deliberately loose rather than a true glob.
func skipped(name string, exclude []string) bool {
	if strings.HasPrefix(name, ".") || skipDirs[name] {
		return true
	}
	for _, pat := range exclude {
		plain := strings.Map(func(r rune) rune {
			if r == '*' || r == '?' {
				return -1
			}
			return r
		}, pat)
		if plain != "" && strings.Contains(name, plain) {
			return true
		}
	}
	return false
}
