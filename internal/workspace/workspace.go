package workspace

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/config"
	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/execx"
	"github.com/mcai4gl2/py-toolkit/internal/lifecycle"
	"github.com/mcai4gl2/py-toolkit/internal/pymgr"
)

// Context holds the resolved root and loaded settings for a workspace.
type Context struct {
	Root       string
	ConfigPath string
	Settings   config.Settings
}

// Load resolves the workspace root and loads pytk.yaml (defaults when the
// file is absent).
func Load(root string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	configPath := filepath.Join(root, config.FileName)
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return &Context{
		Root:       root,
		ConfigPath: configPath,
		Settings:   settings,
	}, nil
}

// Projects runs discovery over the workspace. Results are recomputed on
// every call; there is no cached project registry.
func (c *Context) Projects() ([]discover.SubProject, error) {
	return discover.Discover(c.Root, c.Settings.Exclude)
}

// Prefs returns the configured manager preference order.
func (c *Context) Prefs() []pymgr.Manager {
	return pymgr.ParsePrefs(c.Settings.ManagerPreference)
}

// Lifecycle builds a lifecycle manager that streams external command
// output to out.
func (c *Context) Lifecycle(out io.Writer) lifecycle.Manager {
	return lifecycle.Manager{
		Python: c.Settings.Python,
		Prefs:  c.Prefs(),
		Runner: execx.StreamRunner{Out: out},
	}
}

// ProjectDir returns the absolute path for a project name within the
// workspace.
func (c *Context) ProjectDir(name string) string {
	return filepath.Join(c.Root, filepath.FromSlash(name))
}
