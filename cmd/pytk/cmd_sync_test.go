package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/hashstore"
	"github.com/mcai4gl2/py-toolkit/internal/testutil"
)

// makeCurrentProject builds a project whose venv already validates and
// matches its manifest, so sync takes the no-op fast path and never
// spawns a package manager.
func makeCurrentProject(t *testing.T, ws, rel string) {
	t.Helper()
	project := testutil.MakeProject(t, ws, rel, "flask\n")
	venvDir := testutil.MakeVenv(t, project)
	digest, err := hashstore.HashFile(filepath.Join(project, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := hashstore.Write(venvDir, digest); err != nil {
		t.Fatal(err)
	}
}

func TestRunSync_upToDate(t *testing.T) {
	ws := t.TempDir()
	makeCurrentProject(t, ws, "api")
	makeCurrentProject(t, ws, "mcp/weather")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--root", ws, "sync"})
	if err := root.Execute(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if !strings.Contains(out.String(), "Sync complete.") {
		t.Errorf("missing completion message: %q", out.String())
	}
	progress := errOut.String()
	if !strings.Contains(progress, "[1/2]") || !strings.Contains(progress, "[2/2]") {
		t.Errorf("progress output = %q", progress)
	}
	if !strings.Contains(progress, "up to date") {
		t.Errorf("expected up-to-date fast path, got %q", progress)
	}
}

func TestRunSync_onlyFilter(t *testing.T) {
	ws := t.TempDir()
	makeCurrentProject(t, ws, "api")
	makeCurrentProject(t, ws, "worker")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--root", ws, "sync", "--only", "api"})
	if err := root.Execute(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	progress := errOut.String()
	if !strings.Contains(progress, "api") || strings.Contains(progress, "worker") {
		t.Errorf("--only not honored: %q", progress)
	}
}

func TestRunSync_positionalProjectNames(t *testing.T) {
	ws := t.TempDir()
	makeCurrentProject(t, ws, "api")
	makeCurrentProject(t, ws, "worker")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--root", ws, "sync", "worker"})
	if err := root.Execute(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if strings.Contains(errOut.String(), "api") {
		t.Errorf("positional filter not honored: %q", errOut.String())
	}
}

func TestRunSync_noProjects(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--root", t.TempDir(), "sync"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for workspace with no projects")
	}
}

func TestFilterByNames(t *testing.T) {
	projects := []discover.SubProject{
		{Name: "api"},
		{Name: "worker"},
		{Name: "mcp/weather"},
	}

	got := filterByNames(projects, nil, []string{"worker"})
	if len(got) != 2 || got[0].Name != "api" || got[1].Name != "mcp/weather" {
		t.Errorf("skip filter = %v", got)
	}

	got = filterByNames(projects, []string{"mcp/weather"}, nil)
	if len(got) != 1 || got[0].Name != "mcp/weather" {
		t.Errorf("only filter = %v", got)
	}

	got = filterByNames(projects, []string{"api", "worker"}, []string{"worker"})
	if len(got) != 1 || got[0].Name != "api" {
		t.Errorf("skip wins over only = %v", got)
	}

	got = filterByNames(projects, nil, nil)
	if len(got) != 3 {
		t.Errorf("no filters = %v", got)
	}
}
