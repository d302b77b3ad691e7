// Package pymgr detects which package-management strategy a project uses,
// with an availability-based downgrade from uv to venv+pip.
package pymgr
