package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags, matching the teacher's
// convention of an unadorned default for local builds.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the linemodctl version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
