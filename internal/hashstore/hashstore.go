package hashstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
)

// MarkerFile is the hash marker written inside a venv directory. It records
// the digest of the manifest the venv was last synced against.
const MarkerFile = ".requirements-hash"

// primaryManifests is the fixed priority order for the staleness check.
var primaryManifests = []string{
	"requirements.txt",
	"requirements-dev.txt",
	"requirements-cpu.txt",
}

// HashFile returns the hex sha256 digest of the file's raw bytes. The digest
// only detects accidental drift between a manifest and the installed venv;
// it is not a tamper-resistance mechanism.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a project manifest path
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ReadStored returns the digest recorded in the venv's marker file,
// or false when no marker exists.
func ReadStored(venvPath string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(venvPath, MarkerFile)) //nolint:gosec // marker lives inside the venv
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// Write overwrites the venv's marker file with the digest plus a trailing
// newline. Callers must only write after a successful install so a failed
// install keeps reporting stale.
func Write(venvPath, digest string) error {
	path := filepath.Join(venvPath, MarkerFile)
	if err := os.WriteFile(path, []byte(digest+"\n"), 0644); err != nil { //nolint:gosec // marker file needs no special mode
		return fmt.Errorf("writing hash marker: %w", err)
	}
	return nil
}

// IsStale reports whether the venv's installed dependencies are out of date
// relative to the manifest. A venv with no stored hash (first run, or a
// hand-built venv) is always stale.
func IsStale(venvPath, manifestPath string) (bool, error) {
	stored, ok := ReadStored(venvPath)
	if !ok {
		return true, nil
	}
	current, err := HashFile(manifestPath)
	if err != nil {
		return false, err
	}
	return current != stored, nil
}

// FindPrimaryManifest returns the first existing manifest from the fixed
// priority list, or false when the project has none.
func FindPrimaryManifest(projectPath string) (string, bool) {
	for _, name := range primaryManifests {
		p := filepath.Join(projectPath, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// FindAllManifests returns every requirements*.txt directly in the project
// directory, sorted lexicographically. Read errors yield an empty result.
func FindAllManifests(projectPath string) []string {
	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil
	}
	var manifests []string
	for _, e := range entries {
		if e.IsDir() || !discover.IsRequirementsFile(e.Name()) {
			continue
		}
		manifests = append(manifests, filepath.Join(projectPath, e.Name()))
	}
	sort.Strings(manifests)
	return manifests
}
