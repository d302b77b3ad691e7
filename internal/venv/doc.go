// Package venv locates and validates virtual environments and resolves
// files to the sub-project and venv that own them.
package venv
