// Package cmd implements hermesd's command line, following
// nabbar-golib/cobra's persistent --config/--verbose flag convention
// but without that package's bubbletea interactive-UI and dependency
// surface, which spec.md's daemon has no use for.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hermesd",
		Short: "Hermes machine-to-machine protocol engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to hermesd's YAML configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print DEBUG-level traces to the console")

	root.AddCommand(newServeCommand())
	root.AddCommand(newConfigCommand())
	return root
}

// Execute runs hermesd's root command.
func Execute() error {
	return newRootCommand().Execute()
}
