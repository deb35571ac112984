package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "dev"  // Default version
var Commit = "none"  // Default commit hash
var Date = "unknown" // Default date

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of progbuild",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log.Debug("system", "version", "info", "progbuild version information", "version", Version, "commit", Commit, "date", Date)
		fmt.Fprintf(cmd.OutOrStdout(), "progbuild version %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
