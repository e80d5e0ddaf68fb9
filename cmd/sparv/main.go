// Package main provides the sparv CLI: corpus annotation pipeline driver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sparv/log"
	"github.com/spraakbanken/sparv/profile"
	"github.com/spraakbanken/sparv/version"
)

// app bundles everything shared across sparv's subcommands: the data
// directory override, logging and profiling configuration.
type app struct {
	dataDir    string
	logConfig  *log.Config
	profConfig *profile.Config
}

func main() {
	a := &app{
		logConfig:  log.NewConfig(),
		profConfig: profile.NewConfig(),
	}

	rootCmd := &cobra.Command{
		Use:           "sparv",
		Short:         "Run a corpus annotation pipeline",
		Long:          "sparv builds annotations, exports, and installs corpora through a dependency-tracked pipeline of importers, annotators, and exporters.",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "dir", "", "Sparv data directory (default: $SPARV_DATADIR or ~/.sparv)")
	a.logConfig.RegisterFlags(rootCmd.PersistentFlags())
	a.profConfig.RegisterFlags(rootCmd.PersistentFlags())

	if err := a.logConfig.RegisterCompletions(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	rootCmd.AddCommand(
		a.newRunCmd(),
		a.newInstallCmd(),
		a.newUninstallCmd(),
		a.newRunRuleCmd(),
		a.newRunModuleCmd(),
		a.newBuildModelsCmd(),
		a.newCleanCmd(),
		a.newSetupCmd(),
		a.newFilesCmd(),
		a.newModulesCmd(),
		a.newPresetsCmd(),
		a.newClassesCmd(),
		a.newLanguagesCmd(),
		a.newConfigCmd(),
		a.newSchemaCmd(),
		a.newCreateFileCmd(),
		a.newPreloadCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// startProfiling starts a.profConfig's profiler and returns a function
// that stops it, writing whatever snapshots were enabled. Call via
// defer in every RunE that performs real work.
func (a *app) startProfiling() (func(), error) {
	p := a.profConfig.NewProfiler()
	if err := p.Start(); err != nil {
		return nil, err
	}

	return func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "stop profiling: %v\n", err)
		}
	}, nil
}
