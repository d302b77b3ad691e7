package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mcai4gl2/py-toolkit/internal/execx"
	"github.com/mcai4gl2/py-toolkit/internal/hashstore"
	"github.com/mcai4gl2/py-toolkit/internal/venv"
	"github.com/mcai4gl2/py-toolkit/internal/workspace"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment for common issues",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	out := cmd.OutOrStdout()
	ok := true

	ctx, err := workspace.Load(root)
	if err != nil {
		return err
	}

	python := ctx.Settings.Python
	fmt.Fprintf(out, "Checking %s... ", python)
	if !execx.Available(python) {
		fmt.Fprintln(out, "NOT FOUND")
		fmt.Fprintf(out, "  %s is required. Install Python from https://www.python.org/\n", python)
		ok = false
	} else {
		ver, verr := execx.Output(python, "--version")
		if verr != nil {
			fmt.Fprintln(out, "ERROR")
			ok = false
		} else {
			fmt.Fprintln(out, ver)
			if min := ctx.Settings.MinPython; min != "" && !versionAtLeast(pythonVersion(ver), min) {
				fmt.Fprintf(out, "  Warning: %s is older than the configured minimum %s\n", ver, min)
				ok = false
			}
		}
	}

	fmt.Fprint(out, "Checking uv... ")
	if execx.Available("uv") {
		ver, _ := execx.Output("uv", "--version")
		fmt.Fprintln(out, ver)
	} else {
		// uv is optional: projects fall back to venv+pip when it is missing.
		fmt.Fprintln(out, "not found (uv projects will fall back to pip)")
	}

	fmt.Fprintf(out, "Workspace: %s\n", ctx.Root)
	projects, err := ctx.Projects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintln(out, "  No sub-projects discovered")
	}
	for _, p := range projects {
		venvState := "no venv"
		if venv.IsValid(filepath.Join(p.AbsPath, venv.Dir)) {
			venvState = "venv ok"
		}
		manifests := hashstore.FindAllManifests(p.AbsPath)
		names := make([]string, len(manifests))
		for i, m := range manifests {
			names[i] = filepath.Base(m)
		}
		manifestState := "no requirements manifest"
		if len(names) > 0 {
			manifestState = strings.Join(names, ", ")
		}
		fmt.Fprintf(out, "  %s: %s, %s\n", p.Name, venvState, manifestState)
	}

	if ok {
		fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

// pythonVersion extracts the numeric part from "Python 3.11.4" style output.
func pythonVersion(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// versionAtLeast compares dotted numeric versions; non-numeric segments
// read as zero. Missing segments also read as zero, so "3.10" >= "3.10.0".
func versionAtLeast(have, want string) bool {
	hp := strings.Split(have, ".")
	wp := strings.Split(want, ".")
	n := len(hp)
	if len(wp) > n {
		n = len(wp)
	}
	for i := 0; i < n; i++ {
		h, w := 0, 0
		if i < len(hp) {
			h, _ = strconv.Atoi(hp[i])
		}
		if i < len(wp) {
			w, _ = strconv.Atoi(wp[i])
		}
		if h != w {
			return h > w
		}
	}
	return true
}
