package lifecycle

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcai4gl2/py-toolkit/internal/hashstore"
	"github.com/mcai4gl2/py-toolkit/internal/pymgr"
	"github.com/mcai4gl2/py-toolkit/internal/testutil"
	"github.com/mcai4gl2/py-toolkit/internal/venv"
)

// fakeRunner records commands and simulates venv creation so IsValid
// passes after a create command, the way a real run would.
type fakeRunner struct {
	t        *testing.T
	calls    []string
	failWhen func(argv string) error
}

func (r *fakeRunner) Run(dir, name string, args ...string) error {
	argv := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, argv)
	if r.failWhen != nil {
		if err := r.failWhen(argv); err != nil {
			return err
		}
	}
	// Simulate `uv venv <path>` / `python -m venv <path>`.
	if (name == "uv" && len(args) >= 2 && args[0] == "venv") ||
		(len(args) >= 3 && args[0] == "-m" && args[1] == "venv") {
		target := args[len(args)-1]
		testutil.MakeVenv(r.t, filepath.Dir(target))
	}
	return nil
}

func uvAvailable(string) bool   { return true }
func uvUnavailable(string) bool { return false }

func newManager(t *testing.T, probe func(string) bool) (Manager, *fakeRunner) {
	t.Helper()
	r := &fakeRunner{t: t}
	return Manager{Python: "python3", Runner: r, Probe: probe}, r
}

func TestEnsure_createsVenvAndRecordsHash(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	m, r := newManager(t, uvUnavailable)

	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if !res.Created || res.Updated {
		t.Errorf("Result = %+v, want created without updated", res)
	}
	if res.Manager != pymgr.Pip {
		t.Errorf("Manager = %q, want pip after downgrade", res.Manager)
	}
	if !venv.IsValid(res.VenvPath) {
		t.Error("venv should validate after Ensure")
	}

	want, err := hashstore.HashFile(filepath.Join(project, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	stored, ok := hashstore.ReadStored(res.VenvPath)
	if !ok || stored != want {
		t.Errorf("stored hash = %q, want %q", stored, want)
	}

	if len(r.calls) != 2 {
		t.Fatalf("calls = %v, want create then install", r.calls)
	}
	if !strings.Contains(r.calls[0], "-m venv") {
		t.Errorf("first call = %q, want venv creation", r.calls[0])
	}
	if !strings.Contains(r.calls[1], "-m pip install -r") {
		t.Errorf("second call = %q, want pip install", r.calls[1])
	}
	// Installs must target the venv's interpreter, not the host one.
	if !strings.Contains(r.calls[1], res.VenvPath) {
		t.Errorf("install %q must target the venv interpreter", r.calls[1])
	}
}

func TestEnsure_fastPathSpawnsNothing(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	venvDir := testutil.MakeVenv(t, project)
	digest, err := hashstore.HashFile(filepath.Join(project, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := hashstore.Write(venvDir, digest); err != nil {
		t.Fatal(err)
	}

	m, r := newManager(t, uvUnavailable)
	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created || res.Updated {
		t.Errorf("Result = %+v, want no-op", res)
	}
	if len(r.calls) != 0 {
		t.Errorf("fast path must not spawn any process, ran %v", r.calls)
	}
}

func TestEnsure_staleManifestReinstalls(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	venvDir := testutil.MakeVenv(t, project)
	if err := hashstore.Write(venvDir, "0000"); err != nil {
		t.Fatal(err)
	}

	m, r := newManager(t, uvUnavailable)
	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created || !res.Updated {
		t.Errorf("Result = %+v, want updated", res)
	}
	if len(r.calls) != 1 || !strings.Contains(r.calls[0], "pip install") {
		t.Errorf("calls = %v, want a single install (venv already valid)", r.calls)
	}

	want, _ := hashstore.HashFile(filepath.Join(project, "requirements.txt"))
	if stored, _ := hashstore.ReadStored(venvDir); stored != want {
		t.Errorf("stored hash = %q, want rewritten to %q", stored, want)
	}
}

func TestEnsure_forceSkipsFastPath(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	venvDir := testutil.MakeVenv(t, project)
	digest, _ := hashstore.HashFile(filepath.Join(project, "requirements.txt"))
	if err := hashstore.Write(venvDir, digest); err != nil {
		t.Fatal(err)
	}

	m, r := newManager(t, uvUnavailable)
	res, err := m.Ensure(project, Options{Force: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Updated {
		t.Errorf("Result = %+v, want updated under force", res)
	}
	if len(r.calls) == 0 {
		t.Error("force must reinstall even when current")
	}
}

func TestEnsure_failedInstallKeepsOldHash(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	venvDir := testutil.MakeVenv(t, project)
	if err := hashstore.Write(venvDir, "old-digest"); err != nil {
		t.Fatal(err)
	}

	m, r := newManager(t, uvUnavailable)
	r.failWhen = func(argv string) error {
		if strings.Contains(argv, "pip install") {
			return fmt.Errorf("exit status 1")
		}
		return nil
	}

	if _, err := m.Ensure(project, Options{}); err == nil {
		t.Fatal("expected install failure to propagate")
	}

	// The old hash stays so the next check still reports stale.
	stored, ok := hashstore.ReadStored(venvDir)
	if !ok || stored != "old-digest" {
		t.Errorf("stored hash = %q, want untouched old-digest", stored)
	}
	stale, err := hashstore.IsStale(venvDir, filepath.Join(project, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !stale {
		t.Error("venv must still read as stale after a failed install")
	}
}

func TestEnsure_partialFailureIsRecoverable(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")

	m, r := newManager(t, uvUnavailable)
	r.failWhen = func(argv string) error {
		if strings.Contains(argv, "pip install") {
			return fmt.Errorf("exit status 1")
		}
		return nil
	}

	if _, err := m.Ensure(project, Options{}); err == nil {
		t.Fatal("expected failure")
	}
	// Venv was created but never hashed: valid yet stale.
	venvDir := filepath.Join(project, venv.Dir)
	if !venv.IsValid(venvDir) {
		t.Error("venv should validate after partial completion")
	}

	r.failWhen = nil
	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if !res.Updated {
		t.Errorf("Result = %+v, want updated on retry", res)
	}
}

func TestEnsure_uvCommands(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	testutil.WriteFile(t, project, "uv.lock", "")

	m, r := newManager(t, uvAvailable)
	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Manager != pymgr.UV {
		t.Errorf("Manager = %q, want uv", res.Manager)
	}
	if len(r.calls) != 2 {
		t.Fatalf("calls = %v", r.calls)
	}
	if !strings.HasPrefix(r.calls[0], "uv venv ") {
		t.Errorf("create call = %q", r.calls[0])
	}
	if !strings.HasPrefix(r.calls[1], "uv pip install -r ") || !strings.Contains(r.calls[1], "--python ") {
		t.Errorf("install call = %q", r.calls[1])
	}
}

func TestEnsure_uvSyncBranch(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "svc")
	testutil.WriteFile(t, project, "pyproject.toml", "[tool.uv]\n")

	m, r := newManager(t, uvAvailable)
	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Created {
		t.Errorf("Result = %+v, want created", res)
	}
	found := false
	for _, c := range r.calls {
		if c == "uv sync" {
			found = true
		}
	}
	if !found {
		t.Errorf("calls = %v, want uv sync", r.calls)
	}
	// Sync-based projects are not tracked by the hash mechanism.
	if _, ok := hashstore.ReadStored(res.VenvPath); ok {
		t.Error("uv sync branch must not write a hash")
	}
}

func TestEnsure_manifestOverride(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")
	override := testutil.WriteFile(t, project, "requirements-dev.txt", "pytest\n")

	m, r := newManager(t, uvUnavailable)
	res, err := m.Ensure(project, Options{ManifestOverride: override})
	if err != nil {
		t.Fatal(err)
	}

	want, _ := hashstore.HashFile(override)
	if stored, _ := hashstore.ReadStored(res.VenvPath); stored != want {
		t.Errorf("stored hash = %q, want override manifest's %q", stored, want)
	}
	installed := r.calls[len(r.calls)-1]
	if !strings.Contains(installed, "requirements-dev.txt") {
		t.Errorf("install call = %q, want override manifest", installed)
	}
}

func TestEnsure_noManifestPipProject(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "svc")
	testutil.WriteFile(t, project, "main.py", "print()\n")

	m, r := newManager(t, uvUnavailable)
	res, err := m.Ensure(project, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Created {
		t.Errorf("Result = %+v, want created", res)
	}
	if len(r.calls) != 1 || !strings.Contains(r.calls[0], "-m venv") {
		t.Errorf("calls = %v, want venv creation only", r.calls)
	}
}

func TestEnsure_missingOverrideFails(t *testing.T) {
	root := t.TempDir()
	project := testutil.MakeProject(t, root, "svc", "flask\n")

	m, _ := newManager(t, uvUnavailable)
	_, err := m.Ensure(project, Options{ManifestOverride: filepath.Join(project, "requirements-nope.txt")})
	if err == nil {
		t.Fatal("expected error for missing override manifest")
	}
	if !strings.Contains(err.Error(), "requirements-nope.txt") {
		t.Errorf("error %q should name the manifest", err)
	}
}
