// Package execx is the narrow process boundary for external tools: run an
// argv in a working directory, stream output to an observer, await the
// exit code. Keeping this behind the Runner interface keeps the lifecycle
// state machine free of process-spawning mechanics and testable with a
// fake runner.
package execx
