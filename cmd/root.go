package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// logger is shared by every subcommand. Execute installs the real one;
// the default keeps tests and partial wiring safe.
var logger = zap.NewNop()

var verbose bool

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "codeloom",
	Short: "codeloom bundles directory trees of text files into a single document",
	Long: `codeloom walks one or more directories in order and concatenates every
readable text file into one output document, each file introduced by a
comment line carrying its name. Files that cannot be decoded or read are
skipped, so the result is always the bundle of everything readable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute wires the application logger into the command tree and runs it.
func Execute(l *zap.Logger) error {
	if l != nil {
		logger = l
	}
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
