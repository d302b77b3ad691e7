package main

import (
	"encoding/json"
	"strings"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/pymgr"
	"github.com/mcai4gl2/py-toolkit/internal/ui"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered sub-projects",
		RunE:  runList,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type listEntry struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Markers []discover.Marker `json:"markers"`
	Manager pymgr.Manager     `json:"manager"`
}

func runList(cmd *cobra.Command, _ []string) error {
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

	entries := make([]listEntry, 0, len(projects))
	for _, p := range projects {
		entries = append(entries, listEntry{
			Name:    p.Name,
			Path:    p.AbsPath,
			Markers: p.Markers,
			Manager: pymgr.Detect(p.AbsPath, ctx.Prefs()),
		})
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tbl := ui.NewTable(out, "PROJECT", "MANAGER", "MARKERS")
	for _, e := range entries {
		tbl.Row(e.Name, e.Manager, joinMarkers(e.Markers))
	}
	return tbl.Flush()
}

func joinMarkers(markers []discover.Marker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
