// Fortictl manages FortiGate running configuration from the command line.
//
// It reads the live configuration over SSH (or a websocket lab console),
// computes the command diff against a candidate configuration, and applies
// it as an atomic batch with automatic rollback when commands are rejected.
// Appliance connection details live in a local registry file; mDNS discovery
// finds lab units that are not registered yet.
//
// Usage:
//
//	fortictl [command] [flags]
//
// See 'fortictl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/fortictl/internal/logging"
	"github.com/muurk/fortictl/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fortictl",
	Short: "FortiGate configuration management",
	Long: `Manage FortiGate running configuration from the command line.

fortictl loads the running configuration, diffs it against a candidate,
and pushes the change set as an atomic batch. Rejected commands roll the
appliance back to its pre-commit state unless the commit is forced.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fortictl %s\n", version.Full())
	},
}
