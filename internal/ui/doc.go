// Package ui provides small text-output helpers for the CLI: aligned
// tables and a thread-safe progress counter.
package ui
