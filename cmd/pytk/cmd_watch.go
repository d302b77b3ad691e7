package main

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mcai4gl2/py-toolkit/internal/discover"
	"github.com/mcai4gl2/py-toolkit/internal/watcher"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the workspace and report projects whose venvs go stale",
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	onBatch := func(paths []string) {
		if !anyManifestChange(paths) {
			return
		}
		reportStale(ctx, out)
	}

	w, err := watcher.New(ctx.Root, watcher.Config{
		Debounce: ctx.Settings.Watch.Debounce(),
		Ignore:   ctx.Settings.Watch.Ignore,
	}, onBatch)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	_, _ = fmt.Fprintf(out, "Watching %s (ctrl-c to stop)\n", ctx.Root)
	reportStale(ctx, out)

	sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	return nil
}

// anyManifestChange reports whether a batch touches files that can change
// discovery or staleness results.
func anyManifestChange(paths []string) bool {
	for _, p := range paths {
		base := filepath.Base(p)
		if discover.IsRequirementsFile(base) || base == discover.BuildManifest || strings.HasSuffix(base, ".py") {
			return true
		}
	}
	return false
}

func reportStale(ctx *workspace.Context, out io.Writer) {
	projects, err := ctx.Projects()
	if err != nil {
		_, _ = fmt.Fprintf(out, "discovery failed: %v\n", err)
		return
	}

	var stale []string
	for _, p := range projects {
		s := collectStatus(ctx, p.Name, p.AbsPath)
		if s.Stale {
			stale = append(stale, p.Name)
		}
	}
	if len(stale) == 0 {
		_, _ = fmt.Fprintf(out, "%d projects, all venvs current\n", len(projects))
		return
	}
	_, _ = fmt.Fprintf(out, "%d projects, stale: %s\n", len(projects), strings.Join(stale, ", "))
}
