package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radlabs/radcontrol/internal/o2"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <key>",
	Short: "Invoke one whitelisted run key and print its output",
	Long: `The run command resolves a run key against the script whitelist and
executes it under $O2_ROOT.

A key is either '<project>.<verb>' (e.g. tbis.dev) or
'port_status.<port>'. Known verbs: ` + strings.Join(o2.Verbs(), ", ") + `.

Anything outside the whitelist is rejected before a shell is involved.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	runner := o2.NewRunner()

	out, err := runner.Run(args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	if strings.TrimSpace(out) != "" {
		fmt.Print(out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Println()
		}
	}
	return nil
}
