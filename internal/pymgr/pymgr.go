package pymgr

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/hashstore"
)

// Manager identifies a dependency-management strategy.
type Manager string

const (
	// UV is the modern manager: a fast external tool with lockfile-based
	// resolution and its own venv command.
	UV Manager = "uv"
	// Pip is the legacy strategy: interpreter-native venv plus pip.
	Pip Manager = "pip"
)

// Lockfile is the uv-specific lockfile name.
const Lockfile = "uv.lock"

// DefaultPrefs is the fallback preference order when a project carries no
// manager-specific markers and no preference is configured.
var DefaultPrefs = []Manager{UV, Pip}

// ParsePrefs converts configured manager names into Managers, dropping
// unknown entries. Config validation rejects unknown names up front, so a
// drop here only happens for hand-edited inputs.
func ParsePrefs(names []string) []Manager {
	var prefs []Manager
	for _, n := range names {
		switch Manager(n) {
		case UV, Pip:
			prefs = append(prefs, Manager(n))
		}
	}
	return prefs
}

// Detect classifies a project directory as uv- or pip-managed. It is a pure
// function of filesystem state plus the configured preference order, which
// is consulted only as a last resort.
//
// Decision order, first match wins: a uv lockfile; a pyproject.toml with a
// [tool.uv] table; a pyproject.toml with a [project] table that textually
// declares "dependencies = ["; any requirements*.txt; the first configured
// preference (pip when the list is empty).
func Detect(projectPath string, prefs []Manager) Manager {
	if _, err := os.Stat(filepath.Join(projectPath, Lockfile)); err == nil {
		return UV
	}

	// The [project] check is a shallow string containment on purpose:
	// manifests that declare dependencies with different formatting fall
	// through to the later steps, and that false-negative behavior is what
	// the fallback chain is built around. Do not replace with a TOML parse.
	if data, err := os.ReadFile(filepath.Join(projectPath, discover.BuildManifest)); err == nil { //nolint:gosec // project build manifest
		text := string(data)
		if strings.Contains(text, "[tool.uv]") {
			return UV
		}
		if strings.Contains(text, "[project]") && strings.Contains(text, "dependencies = [") {
			return UV
		}
	}

	if len(hashstore.FindAllManifests(projectPath)) > 0 {
		return Pip
	}

	if len(prefs) > 0 {
		return prefs[0]
	}
	return Pip
}

// Resolve detects the project's manager and downgrades uv to pip when the
// uv binary is not runnable on this host. Availability is probed fresh on
// every call, never cached: host tool availability can change between
// installs.
func Resolve(projectPath string, prefs []Manager, available func(tool string) bool) Manager {
	m := Detect(projectPath, prefs)
	if m == UV && available != nil && !available("uv") {
		return Pip
	}
	return m
}
