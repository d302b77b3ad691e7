package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcai4gl2/py-toolkit/internal/testutil"
)

func TestRunClean_requiresForce(t *testing.T) {
	ws := t.TempDir()
	testutil.MakeProject(t, ws, "api", "flask\n")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--root", ws, "clean"})
	if err := root.Execute(); err == nil {
		t.Fatal("clean without --force must fail")
	}
}

func TestRunClean_removesVenvs(t *testing.T) {
	ws := t.TempDir()
	api := testutil.MakeProject(t, ws, "api", "flask\n")
	testutil.MakeVenv(t, api)
	worker := testutil.MakeProject(t, ws, "worker", "celery\n")
	testutil.MakeVenv(t, worker)

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"--root", ws, "clean", "--force"})
	if err := root.Execute(); err != nil {
		t.Fatalf("clean failed: %v", err)
	}

	for _, p := range []string{api, worker} {
		if _, err := os.Stat(filepath.Join(p, ".venv")); !os.IsNotExist(err) {
			t.Errorf("venv under %s should be removed", p)
		}
	}
	// Project sources stay.
	if _, err := os.Stat(filepath.Join(api, "requirements.txt")); err != nil {
		t.Error("clean must not touch project files")
	}
}

func TestRunClean_onlyFilter(t *testing.T) {
	ws := t.TempDir()
	api := testutil.MakeProject(t, ws, "api", "flask\n")
	testutil.MakeVenv(t, api)
	worker := testutil.MakeProject(t, ws, "worker", "celery\n")
	testutil.MakeVenv(t, worker)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--root", ws, "clean", "--force", "--only", "api"})
	if err := root.Execute(); err != nil {
		t.Fatalf("clean failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(api, ".venv")); !os.IsNotExist(err) {
		t.Error("api venv should be removed")
	}
	if _, err := os.Stat(filepath.Join(worker, ".venv")); err != nil {
		t.Error("worker venv should be untouched")
	}
}
