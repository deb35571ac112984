package cmd

import (
	"errors"
	"os"

	"progbuild/go/pkg/builderr"
	"progbuild/go/pkg/logbowl"

	"github.com/spf13/cobra"
)

var (
	log logbowl.Logger
)

var rootCmd = &cobra.Command{
	Use:   "progbuild",
	Short: "Builds the SDL2 demo program with the compiler settings for the host platform.",
	Long: `Run without arguments, progbuild detects the host platform, composes the g++
command line for it and compiles ./src/*.cpp into ./prog (./prog.exe on Windows).`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logbowl.CreateWithOutput("progbuild", cmd.ErrOrStderr())
	},
	RunE: runBuild,
}

func Execute() {
	os.Exit(run())
}

// run executes the command tree and maps the result onto the process exit
// code: 0 on success, 1 for anything else.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		// Build errors were already reported where they happened.
		var be *builderr.Error
		if !errors.As(err, &be) {
			if log.Logger == nil { // Usage errors can happen before PersistentPreRun
				log = logbowl.CreateWithOutput("progbuild", rootCmd.ErrOrStderr())
			}
			log.Error("system", "stop", "error", "Failed to execute command", "error", err)
		}
		return 1
	}
	return 0
}
