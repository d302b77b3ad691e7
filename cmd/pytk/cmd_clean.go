package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/venv"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove sub-project venvs (destructive, requires --force)",
		RunE:  runClean,
	}
	cmd.Flags().Bool("force", false, "Required to confirm destructive operation")
	cmd.Flags().StringSlice("only", nil, "Clean only these project names")
	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	force, _ := cmd.Flags().GetBool("force")
	only, _ := cmd.Flags().GetStringSlice("only")

	if !force {
		return fmt.Errorf("clean is destructive; pass --force to confirm")
	}

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}
	projects, err := ctx.Projects()
	if err != nil {
		return err
	}
	projects = filterByNames(projects, only, nil)

	out := cmd.OutOrStdout()
	removed := 0
	for _, p := range projects {
		venvPath := filepath.Join(p.AbsPath, venv.Dir)
		if _, err := os.Stat(venvPath); err != nil {
			continue
		}
		if err := os.RemoveAll(venvPath); err != nil {
			return fmt.Errorf("removing %s: %w", venvPath, err)
		}
		_, _ = fmt.Fprintf(out, "Removed %s\n", venvPath)
		removed++
	}

	_, _ = fmt.Fprintf(out, "Removed %d venvs.\n", removed)
	return nil
}
