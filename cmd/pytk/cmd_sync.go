package main

import (
	"fmt"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/lifecycle"
	"github.com/mcai4gl2/py-toolkit/internal/ui"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [project...]",
		Short: "Create or update venvs to match each project's requirements",
		RunE:  runSync,
	}
	cmd.Flags().Bool("force", false, "Reinstall even when the venv is current")
	cmd.Flags().StringSlice("only", nil, "Sync only these project names")
	cmd.Flags().StringSlice("skip", nil, "Skip these project names")
	cmd.Flags().String("requirements", "", "Manifest file to install instead of the primary one (relative to each project)")
	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	force, _ := cmd.Flags().GetBool("force")
	only, _ := cmd.Flags().GetStringSlice("only")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	requirements, _ := cmd.Flags().GetString("requirements")

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}
	projects, err := ctx.Projects()
	if err != nil {
		return err
	}

	only = append(only, args...)
	projects = filterByNames(projects, only, skip)
	if len(projects) == 0 {
		return fmt.Errorf("no projects to sync")
	}

	out := cmd.OutOrStdout()
	progress := ui.NewProgress(cmd.ErrOrStderr(), len(projects))
	lc := ctx.Lifecycle(out)

	// Projects are synced one at a time: at most one external command is
	// in flight per invocation, and there is no locking against a second
	// pytk process syncing the same project.
	for _, p := range projects {
		opts := lifecycle.Options{Force: force}
		if requirements != "" {
			opts.ManifestOverride = requirements
			if !filepath.IsAbs(requirements) {
				opts.ManifestOverride = filepath.Join(p.AbsPath, requirements)
			}
		}

		res, err := lc.Ensure(p.AbsPath, opts)
		if err != nil {
			return fmt.Errorf("project %s: %w", p.Name, err)
		}
		progress.Done(fmt.Sprintf("%s %s", p.Name, describeResult(res)))
	}

	_, _ = fmt.Fprintln(out, "Sync complete.")
	return nil
}

func describeResult(res lifecycle.Result) string {
	switch {
	case res.Created:
		return fmt.Sprintf("venv created (%s)", res.Manager)
	case res.Updated:
		return fmt.Sprintf("updated (%s)", res.Manager)
	default:
		return "up to date"
	}
}

// filterByNames returns projects matching --only / --skip flags.
func filterByNames(projects []discover.SubProject, only, skip []string) []discover.SubProject {
	if len(only) == 0 && len(skip) == 0 {
		return projects
	}
	onlySet := toSet(only)
	skipSet := toSet(skip)

	var result []discover.SubProject
	for _, p := range projects {
		if len(onlySet) > 0 && !onlySet[p.Name] {
			continue
		}
		if skipSet[p.Name] {
			continue
		}
		result = append(result, p)
	}
	return result
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
