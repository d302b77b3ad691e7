// Package lifecycle composes discovery, manager resolution, the venv
// locator, and the hash store into the Ensure state machine that creates
// or updates a project's venv. At most one external command is in flight
// per call, and no cross-call locking is performed.
package lifecycle
