package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (can be set at build time)
var (
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "radcontrol",
	Short: "Control panel for launching and monitoring local dev projects",
	Long: `RadControl is a terminal control panel for a small fleet of local
development projects. It launches dev servers, takes snapshots, commits,
and builds maps/proof packs through a whitelisted set of scripts, and
watches live TCP-port status per project.

Usage:
  radcontrol panel     Open the interactive control panel (default)
  radcontrol run       Invoke one whitelisted run key
  radcontrol status    One-shot port status sweep
  radcontrol projects  Print the merged project list
  radcontrol doctor    Check the workspace and probe tools`,
	Version: version,
	RunE:    runPanel,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
