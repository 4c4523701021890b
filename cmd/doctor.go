package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radlabs/radcontrol/internal/doctor"
	"github.com/radlabs/radcontrol/internal/o2"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the O2 workspace and probe tools are in place",
	Long: `The doctor command checks everything the panel depends on: bash and
lsof on PATH, the O2 workspace root, the whitelisted scripts, and the
external registry. Each failed check comes with a hint.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	d := doctor.Diagnose(o2.NewRunner())

	fmt.Printf("Workspace: %s\n\n", d.Root)
	for _, c := range d.Checks {
		if c.OK {
			fmt.Printf("✓ %-10s %s\n", c.Name, c.Detail)
			continue
		}
		fmt.Printf("✗ %-10s %s\n", c.Name, c.Hint)
	}

	if !d.Healthy {
		fmt.Println("\nSome checks failed; the panel may still run with reduced functionality.")
	}
	return nil
}
