package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pytk",
		Short:   "Python workspace and virtualenv manager",
		Version: version,
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root directory")

	cmd.AddCommand(
		newInitCmd(),
		newListCmd(),
		newStatusCmd(),
		newSyncCmd(),
		newRunCmd(),
		newTestCmd(),
		newWatchCmd(),
		newDoctorCmd(),
		newCleanCmd(),
	)

	return cmd
}
