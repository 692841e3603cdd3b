// Package cmd wires the souji command-line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yamakage/souji/internal/cleaners"
	"github.com/yamakage/souji/internal/logging"
)

var (
	// Global flags
	verbosity int

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// registry holds every built-in cleaner; commands resolve kinds through
// it so adding a resource kind never touches dispatch logic.
var registry = cleaners.Default()

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "souji",
	Short: "Tidy up your development machine",
	Long: `souji - tidy up your development machine.

Finds and removes disposable artifacts that pile up on a workstation:
build output (Rust, Node.js, Python, Flutter, Haskell), dependency
caches (Go, Gradle, Xcode), unused Docker resources, oversized
application caches, and large forgotten files.

Every command searches by default and deletes only when asked.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase log detail (-v info, -vv debug)")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(archivesCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
