package venv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Dir is the conventional venv directory name inside a project.
const Dir = ".venv"

// Find walks upward from path (or its containing directory when path is a
// file) toward and including root, returning the first ancestor's .venv
// directory. It returns false once the search would leave root's subtree.
func Find(path, root string) (string, bool) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}

	for {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", false
		}

		candidate := filepath.Join(dir, Dir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}

		if dir == root || rel == "." {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// IsValid reports whether the venv contains a platform-appropriate
// interpreter binary.
func IsValid(venvPath string) bool {
	info, err := os.Stat(InterpreterPath(venvPath))
	return err == nil && !info.IsDir()
}

// InterpreterPath returns the venv's python binary path following the host
// OS layout convention. The path is constructed, never probed.
func InterpreterPath(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts", "python.exe")
	}
	return filepath.Join(venvPath, "bin", "python")
}

// PipPath returns the venv's pip binary path, same layout rule as
// InterpreterPath.
func PipPath(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts", "pip.exe")
	}
	return filepath.Join(venvPath, "bin", "pip")
}

// BinDir returns the venv's executable directory, for PATH construction.
func BinDir(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts")
	}
	return filepath.Join(venvPath, "bin")
}

// ProjectForFile resolves a file to the sub-project that owns it: the
// longest name in names that is a proper path-prefix of the file's
// workspace-relative path. A nested project therefore wins over an
// ancestor project. Returns false when no name matches.
func ProjectForFile(filePath, root string, names []string) (string, bool) {
	rel, err := filepath.Rel(root, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	best := ""
	for _, name := range names {
		if name == "" || len(name) <= len(best) {
			continue
		}
		if strings.HasPrefix(rel, name+"/") {
			best = name
		}
	}
	return best, best != ""
}
