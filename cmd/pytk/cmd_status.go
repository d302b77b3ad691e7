package main

import (
	"encoding/json"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/hashstore"
	"github.com/mcai4gl2/py-toolkit/internal/pymgr"
	"github.com/mcai4gl2/py-toolkit/internal/ui"
	"github.com/mcai4gl2/py-toolkit/internal/venv"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show venv state for each sub-project",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type projectStatus struct {
	Name     string        `json:"name"`
	Manager  pymgr.Manager `json:"manager"`
	Venv     bool          `json:"venv"`
	Manifest string        `json:"manifest,omitempty"`
	Stale    bool          `json:"stale"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}
	projects, err := ctx.Projects()
	if err != nil {
		return err
	}

	statuses := make([]projectStatus, 0, len(projects))
	for _, p := range projects {
		statuses = append(statuses, collectStatus(ctx, p.Name, p.AbsPath))
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tbl := ui.NewTable(out, "PROJECT", "MANAGER", "VENV", "MANIFEST", "STALE")
	for _, s := range statuses {
		venvState := "missing"
		if s.Venv {
			venvState = "ok"
		}
		tbl.Row(s.Name, s.Manager, venvState, s.Manifest, s.Stale)
	}
	return tbl.Flush()
}

func collectStatus(ctx *workspace.Context, name, projectPath string) projectStatus {
	s := projectStatus{
		Name:    name,
		Manager: pymgr.Detect(projectPath, ctx.Prefs()),
	}

	venvPath := filepath.Join(projectPath, venv.Dir)
	s.Venv = venv.IsValid(venvPath)

	manifest, ok := hashstore.FindPrimaryManifest(projectPath)
	if !ok {
		// Sync-based projects are not tracked by the hash mechanism, so a
		// valid venv with no manifest reads as current.
		s.Stale = !s.Venv
		return s
	}
	s.Manifest = filepath.Base(manifest)

	if !s.Venv {
		s.Stale = true
		return s
	}
	if stale, err := hashstore.IsStale(venvPath, manifest); err == nil {
		s.Stale = stale
	}
	return s
}
