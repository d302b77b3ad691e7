package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/execx"
	"github.com/mcai4gl2/py-toolkit/internal/hashstore"
	"github.com/mcai4gl2/py-toolkit/internal/pymgr"
	"github.com/mcai4gl2/py-toolkit/internal/venv"
)

// Options configures a single Ensure call.
type Options struct {
	// Force skips the staleness fast path and always reinstalls.
	Force bool
	// ManifestOverride, when set, is used instead of the project's
	// primary manifest.
	ManifestOverride string
}

// Result reports what an Ensure call did.
type Result struct {
	VenvPath string
	Manager  pymgr.Manager
	Created  bool
	Updated  bool
}

// Manager drives venv creation and dependency installs for projects in a
// workspace. The zero value is not usable; Runner must be set.
type Manager struct {
	// Python is the interpreter command used for venv+pip projects.
	Python string
	// Prefs is the configured manager preference order.
	Prefs []pymgr.Manager
	// Runner executes external commands.
	Runner execx.Runner
	// Probe reports tool availability; nil uses the default version probe.
	Probe func(tool string) bool
}

// Ensure makes the project's venv exist and match its manifest.
//
// When the venv already validates, Force is unset, and the manifest's hash
// matches the stored one, Ensure returns without spawning any process.
// Otherwise it creates the venv if needed and installs the manifest with
// the resolved manager, recording the manifest's hash only after a
// successful install. uv projects with a pyproject.toml and no
// requirements manifest are synchronized with `uv sync` instead and are
// not tracked by the hash mechanism.
//
// External command failures abort the sequence and propagate. A venv left
// half-built (created but install failed) still validates on the next call
// and still reads as stale, so re-invoking Ensure is the recovery path.
// Concurrent Ensure calls against the same project are not serialized;
// overlapping installs into one venv can race. Callers that can overlap
// (a watcher plus a manual command) must accept that.
func (m Manager) Ensure(projectPath string, opts Options) (Result, error) {
	projectPath, err := filepath.Abs(projectPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolving project path: %w", err)
	}

	probe := m.Probe
	if probe == nil {
		probe = execx.Available
	}

	mgr := pymgr.Resolve(projectPath, m.Prefs, probe)
	manifest := opts.ManifestOverride
	if manifest == "" {
		manifest, _ = hashstore.FindPrimaryManifest(projectPath)
	}

	venvPath := filepath.Join(projectPath, venv.Dir)
	valid := venv.IsValid(venvPath)
	res := Result{VenvPath: venvPath, Manager: mgr}

	if valid && !opts.Force && manifest != "" {
		stale, err := hashstore.IsStale(venvPath, manifest)
		if err != nil {
			return res, fmt.Errorf("checking staleness: %w", err)
		}
		if !stale {
			return res, nil
		}
	}

	if !valid {
		if err := m.createVenv(mgr, projectPath, venvPath); err != nil {
			return res, fmt.Errorf("creating venv: %w", err)
		}
	}

	switch {
	case manifest != "":
		if err := m.install(mgr, projectPath, venvPath, manifest); err != nil {
			return res, fmt.Errorf("installing %s: %w", filepath.Base(manifest), err)
		}
		digest, err := hashstore.HashFile(manifest)
		if err != nil {
			return res, fmt.Errorf("hashing %s: %w", manifest, err)
		}
		if err := hashstore.Write(venvPath, digest); err != nil {
			return res, err
		}
	case mgr == pymgr.UV && hasBuildManifest(projectPath):
		if err := m.Runner.Run(projectPath, "uv", "sync"); err != nil {
			return res, fmt.Errorf("syncing project: %w", err)
		}
	}

	res.Created = !valid
	res.Updated = valid
	return res, nil
}

func (m Manager) createVenv(mgr pymgr.Manager, projectPath, venvPath string) error {
	if mgr == pymgr.UV {
		return m.Runner.Run(projectPath, "uv", "venv", venvPath)
	}
	return m.Runner.Run(projectPath, m.python(), "-m", "venv", venvPath)
}

// install targets the venv's interpreter explicitly so the install lands in
// the venv regardless of the ambient environment.
func (m Manager) install(mgr pymgr.Manager, projectPath, venvPath, manifest string) error {
	py := venv.InterpreterPath(venvPath)
	if mgr == pymgr.UV {
		return m.Runner.Run(projectPath, "uv", "pip", "install", "-r", manifest, "--python", py)
	}
	return m.Runner.Run(projectPath, py, "-m", "pip", "install", "-r", manifest)
}

func (m Manager) python() string {
	if m.Python != "" {
		return m.Python
	}
	return "python3"
}

func hasBuildManifest(projectPath string) bool {
	info, err := os.Stat(filepath.Join(projectPath, discover.BuildManifest))
	return err == nil && !info.IsDir()
}
