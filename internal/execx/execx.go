package execx

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ProbeTimeout bounds tool availability checks. Anything slower than this
// is treated as unavailable.
const ProbeTimeout = 3 * time.Second

// Runner executes an external command in a working directory, streaming
// its combined output as it arrives. A non-nil error means the command
// failed to spawn or exited non-zero.
type Runner interface {
	Run(dir string, name string, args ...string) error
}

// StreamRunner runs commands with stdout and stderr forwarded to Out
// incrementally rather than buffered.
type StreamRunner struct {
	Out io.Writer
}

// Run executes name with args in dir. No shell expansion.
func (r StreamRunner) Run(dir string, name string, args ...string) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	cmd := exec.Command(name, args...) //nolint:gosec // argv comes from the lifecycle state machine, not user text
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Available reports whether a tool responds to a version probe within
// ProbeTimeout. Spawn errors and timeouts both read as unavailable and are
// never escalated.
func Available(tool string) bool {
	if _, err := exec.LookPath(tool); err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, tool, "--version") //nolint:gosec // tool name is a fixed manager binary
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

// Output runs a command bounded by ProbeTimeout and returns its trimmed
// stdout. Used for short liveness probes such as version reporting.
func Output(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ProbeTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // probe argv is fixed
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
