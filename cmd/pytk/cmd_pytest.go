package main

import (
	"fmt"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/execx"
	"github.com/mcai4gl2/py-toolkit/internal/venv"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [project] [-- <pytest args...>]",
		Short: "Run pytest from a project's venv",
		RunE:  runTest,
	}
	return cmd
}

func runTest(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")

	var project string
	var extra []string
	for i, a := range args {
		if a == "--" {
			extra = args[i+1:]
			break
		}
		if project != "" {
			return fmt.Errorf("at most one project name; use -- to pass pytest arguments")
		}
		project = a
	}

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	dir := ctx.Root
	if project != "" {
		dir = ctx.ProjectDir(project)
	}

	venvPath := filepath.Join(dir, venv.Dir)
	if !venv.IsValid(venvPath) {
		return fmt.Errorf("no usable venv at %s; run `pytk sync` first", venvPath)
	}

	pytestArgs := append([]string{"-m", "pytest"}, ctx.Settings.TestArgs...)
	pytestArgs = append(pytestArgs, extra...)

	runner := execx.StreamRunner{Out: cmd.OutOrStdout()}
	if err := runner.Run(dir, venv.InterpreterPath(venvPath), pytestArgs...); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	return nil
}
