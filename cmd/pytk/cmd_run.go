package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mcai4gl2/py-toolkit/internal/venv"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [--project <name>] -- <command...>",
		Short: "Run a command with a project's venv activated",
		RunE:  runRun,
	}
	cmd.Flags().String("project", "", "Project name; defaults to the project owning the current directory")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	project, _ := cmd.Flags().GetString("project")

	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: pytk run [--project <name>] -- <command...>")
	}

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	dir, venvPath, err := resolveRunTarget(ctx, project)
	if err != nil {
		return err
	}
	if !venv.IsValid(venvPath) {
		return fmt.Errorf("venv at %s is not usable; run `pytk sync` first", venvPath)
	}

	c := exec.Command(args[0], args[1:]...) //nolint:gosec // user-requested command, run verbatim like a shell would
	c.Dir = dir
	c.Env = venvEnviron(os.Environ(), venvPath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// resolveRunTarget picks the working directory and venv for the run: the
// named project's, or the venv enclosing the current directory.
func resolveRunTarget(ctx *workspace.Context, project string) (dir, venvPath string, err error) {
	if project != "" {
		dir = ctx.ProjectDir(project)
		if _, statErr := os.Stat(dir); statErr != nil {
			return "", "", fmt.Errorf("project %q not found under %s", project, ctx.Root)
		}
		return dir, filepath.Join(dir, venv.Dir), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("resolving current directory: %w", err)
	}
	vp, ok := venv.Find(cwd, ctx.Root)
	if !ok {
		return "", "", fmt.Errorf("no venv found between %s and the workspace root; pass --project or run `pytk sync`", cwd)
	}
	return cwd, vp, nil
}

// venvEnviron rewrites an environment so the venv's executables win:
// VIRTUAL_ENV is set and the venv's bin directory is prepended to PATH.
func venvEnviron(base []string, venvPath string) []string {
	env := make([]string, 0, len(base)+2)
	pathSet := false
	for _, kv := range base {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			env = append(env, "PATH="+venv.BinDir(venvPath)+string(os.PathListSeparator)+strings.TrimPrefix(kv, "PATH="))
			pathSet = true
		case strings.HasPrefix(kv, "VIRTUAL_ENV="):
			// replaced below
		default:
			env = append(env, kv)
		}
	}
	if !pathSet {
		env = append(env, "PATH="+venv.BinDir(venvPath))
	}
	env = append(env, "VIRTUAL_ENV="+venvPath)
	return env
}
