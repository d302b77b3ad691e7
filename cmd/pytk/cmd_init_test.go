package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mcai4gl2/py-toolkit/internal/config"
)

func TestRunInit_defaults(t *testing.T) {
	ws := t.TempDir()

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"--root", ws, "init", "--defaults"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	s, err := config.Load(filepath.Join(ws, config.FileName))
	if err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	if s.Python != "python3" {
		t.Errorf("Python = %q", s.Python)
	}
}

func TestRunInit_refusesOverwrite(t *testing.T) {
	ws := t.TempDir()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--root", ws, "init", "--defaults"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	again := newRootCmd()
	again.SetOut(&bytes.Buffer{})
	again.SetArgs([]string{"--root", ws, "init", "--defaults"})
	if err := again.Execute(); err == nil {
		t.Fatal("init over an existing pytk.yaml must fail without --force")
	}

	forced := newRootCmd()
	forced.SetOut(&bytes.Buffer{})
	forced.SetArgs([]string{"--root", ws, "init", "--defaults", "--force"})
	if err := forced.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
}
