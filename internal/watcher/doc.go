// Package watcher provides a recursive, debounced filesystem watcher used
// to re-run discovery and staleness checks when a workspace changes.
package watcher
