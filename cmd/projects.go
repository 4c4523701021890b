package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radlabs/radcontrol/internal/config"
	"github.com/radlabs/radcontrol/internal/o2"
	"github.com/radlabs/radcontrol/internal/registry"
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Print the merged project list",
	Long: `The projects command prints the baseline merged with the external
registry, in the same stable order the panel shows: case-insensitive
label sort with the key as tiebreaker. Baseline entries always win on
key collision.`,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().StringP("config", "c", "", "Path to the configuration file (default ~/.radcontrol.yaml)")
}

func runProjects(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	runner := o2.NewRunner()
	projects, regErr := registry.Load(cfg.Baseline(), runner)
	if regErr != nil {
		fmt.Printf("⚠️  registry: %v (showing baseline only)\n", regErr)
	}

	for _, p := range projects {
		port := "-"
		if p.Port > 0 {
			port = fmt.Sprintf("%d", p.Port)
		}
		url := p.URL
		if url == "" {
			url = "-"
		}
		fmt.Printf("%-12s %-16s port %-6s %s\n", p.Key, p.DisplayLabel(), port, url)
	}
	return nil
}
