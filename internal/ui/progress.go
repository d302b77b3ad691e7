package ui

import (
	"fmt"
	"io"
	"sync"
)

// Progress tracks completion of a fixed number of tasks with a simple
// counter display.
type Progress struct {
	out       io.Writer
	total     int
	mu        sync.Mutex
	completed int
}

// NewProgress creates a progress tracker for total tasks.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done marks one task as completed and prints the current progress.
func (p *Progress) Done(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s\n", p.completed, p.total, label)
}

// Log prints an informational message within the progress context.
func (p *Progress) Log(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Warn prints a warning message without advancing the counter.
func (p *Progress) Warn(format string, args ...any) {
	p.Log("Warning: "+format, args...)
}
