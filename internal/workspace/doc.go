// Package workspace integrates configuration loading with project
// discovery and lifecycle construction. It provides the Context type that
// holds the resolved workspace root and loaded settings.
package workspace
