package cmd

import (
	"os"

	"progbuild/go/pkg/builderr"
	"progbuild/go/pkg/compose"
	"progbuild/go/pkg/driver"
	"progbuild/go/pkg/invoke"
	"progbuild/go/pkg/platform"

	"github.com/spf13/cobra"
)

// CompilerEnvVar overrides the default compiler when --compiler is not given.
const CompilerEnvVar = "PROGBUILD_COMPILER"

var (
	buildCompiler      string
	buildCompilerFlags []string
	buildSourceGlob    string
	buildSourceFiles   []string
	buildExcludes      []string
	buildOutputName    string
	buildPlatform      string
	buildDir           string
	buildDryRun        bool
)

func init() {
	defaults := compose.DefaultCommonConfig()
	rootCmd.Flags().StringVar(&buildCompiler, "compiler", "", "Compiler to run (default $"+CompilerEnvVar+" or "+defaults.CompilerPath+").")
	rootCmd.Flags().StringArrayVar(&buildCompilerFlags, "flag", []string{}, "Common compiler flag; replaces the defaults (-g -std=c++17) when given.")
	rootCmd.Flags().StringVar(&buildSourceGlob, "source", defaults.SourceGlob, "Glob of source files, ** allowed.")
	rootCmd.Flags().StringArrayVar(&buildSourceFiles, "file", []string{}, "Explicit source file; disables --source.")
	rootCmd.Flags().StringArrayVar(&buildExcludes, "exclude", []string{}, "Glob patterns to drop from the --source matches.")
	rootCmd.Flags().StringVarP(&buildOutputName, "output", "o", defaults.BaseExecutableName, "Base name of the executable; the platform may add a suffix.")
	rootCmd.Flags().StringVar(&buildPlatform, "platform", "", "Build for this platform's profile instead of the detected one.")
	rootCmd.Flags().StringVarP(&buildDir, "dir", "C", "", "Project directory to build in.")
	rootCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Print the compiler command instead of running it.")
}

// commonConfigFromFlags layers flags and environment over the defaults.
func commonConfigFromFlags(cmd *cobra.Command) compose.CommonConfig {
	common := compose.DefaultCommonConfig()
	switch {
	case buildCompiler != "":
		common.CompilerPath = buildCompiler
	case os.Getenv(CompilerEnvVar) != "":
		common.CompilerPath = os.Getenv(CompilerEnvVar)
	}
	if cmd.Flags().Changed("flag") {
		common.CompilerFlags = append([]string(nil), buildCompilerFlags...)
	}
	common.SourceGlob = buildSourceGlob
	common.SourceFiles = append([]string(nil), buildSourceFiles...)
	common.ExcludePatterns = append([]string(nil), buildExcludes...)
	common.BaseExecutableName = buildOutputName
	common.Dir = buildDir
	return common
}

func runBuild(cmd *cobra.Command, args []string) error {
	common := commonConfigFromFlags(cmd)

	inv := invoke.New(log)
	inv.Dir = buildDir
	inv.Stdout = cmd.OutOrStdout()
	inv.Stderr = cmd.ErrOrStderr()

	d := driver.New(common, inv, cmd.OutOrStdout(), log)
	d.DryRun = buildDryRun
	if buildPlatform != "" {
		key, err := platform.Parse(buildPlatform)
		if err != nil {
			log.Error("config", "validate", "invalid", "Bad --platform value", "platform", buildPlatform, "error", err)
			return builderr.New(builderr.InvalidConfig, "config", err)
		}
		log.Debug("platform", "detect", "skip", "Platform detection overridden", "platform", key.String())
		d.Detect = func() platform.Key { return key }
	}

	res := d.Run()
	if res.ExitCode() != 0 {
		return res.Err
	}
	return nil
}
