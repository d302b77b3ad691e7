package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcai4gl2/py-toolkit/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a pytk.yaml for the workspace, interactively or with defaults",
		RunE:  runInit,
	}
	cmd.Flags().Bool("defaults", false, "Write the default configuration without prompting")
	cmd.Flags().Bool("force", false, "Overwrite an existing pytk.yaml")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	useDefaults, _ := cmd.Flags().GetBool("defaults")
	force, _ := cmd.Flags().GetBool("force")

	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}
	configPath := filepath.Join(abs, config.FileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	var settings config.Settings
	switch {
	case useDefaults:
		settings = config.Default()
	default:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive init requires a TTY; use --defaults to skip prompts")
		}
		settings, err = interactiveSettings()
		if err != nil {
			return fmt.Errorf("interactive setup: %w", err)
		}
	}

	if err := config.Save(configPath, settings); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Workspace configuration written to %s\n", configPath)
	return nil
}
