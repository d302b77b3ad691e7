package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable_render(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "PROJECT", "MANAGER", "STALE")
	tbl.Row("api", "uv", true)
	tbl.Row("mcp/weather", "pip", false)
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 lines (header + 2 rows), got %d", len(lines))
	}
	if !strings.Contains(lines[0], "PROJECT") {
		t.Errorf("header missing PROJECT: %q", lines[0])
	}
	if !strings.Contains(lines[2], "mcp/weather") {
		t.Errorf("row 2 missing project name: %q", lines[2])
	}
}

func TestTable_nothingWrittenBeforeFlush(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	tbl.Row("x", "y")
	if buf.Len() != 0 {
		t.Errorf("rows must be buffered until Flush, got %q", buf.String())
	}
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("Flush wrote nothing")
	}
}

func TestTable_emptyTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B")
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected header only, got %d lines", len(lines))
	}
}
