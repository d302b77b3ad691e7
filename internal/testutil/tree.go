package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// WriteFile writes content at rel below dir, creating parent directories.
// Returns the absolute path.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // test fixture
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test fixture
		t.Fatal(err)
	}
	return path
}

// MakeProject creates a project directory at rel below root containing a
// requirements.txt with the given content. Returns the project's absolute
// path.
func MakeProject(t *testing.T, root, rel, requirements string) string {
	t.Helper()
	WriteFile(t, root, rel+"/requirements.txt", requirements)
	return filepath.Join(root, filepath.FromSlash(rel))
}

// MakeVenv creates a .venv layout under projectDir with a fake interpreter
// binary in the platform-appropriate location, so validity checks pass.
// Returns the venv path.
func MakeVenv(t *testing.T, projectDir string) string {
	t.Helper()
	venvDir := filepath.Join(projectDir, ".venv")
	if runtime.GOOS == "windows" {
		WriteFile(t, venvDir, "Scripts/python.exe", "")
	} else {
		WriteFile(t, venvDir, "bin/python", "#!/bin/sh\n")
	}
	return venvDir
}
