package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/radlabs/radcontrol/internal/config"
	"github.com/radlabs/radcontrol/internal/o2"
	"github.com/radlabs/radcontrol/internal/ports"
	"github.com/radlabs/radcontrol/internal/registry"
	"github.com/radlabs/radcontrol/internal/scratch"
	"github.com/radlabs/radcontrol/internal/ui"
)

// panelCmd represents the panel command
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive control panel",
	Long: `The panel command opens the TUI control panel: one tab per project,
live port status, whitelisted project actions, a scratch note per tab,
and a log area for command output.

The project list is the compiled-in baseline (or the one from the config
file) merged with the external registry; registry entries only add
projects the baseline doesn't know about.`,
	RunE: runPanel,
}

func init() {
	panelCmd.Flags().StringP("config", "c", "", "Path to the configuration file (default ~/.radcontrol.yaml)")
}

func runPanel(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	runner := o2.NewRunner()
	baseline := cfg.Baseline()

	// A registry failure is worth a log line, never a refusal to start.
	var initialLog []string
	projects, regErr := registry.Load(baseline, runner)
	if regErr != nil {
		initialLog = append(initialLog, fmt.Sprintf("registry: %v", regErr))
	}
	initialLog = append(initialLog, fmt.Sprintf("loaded %d project(s) from %s", len(projects), runner.Root))

	monitor := ports.NewMonitor(ports.ShellQuerier{Run: runner.Run})
	monitor.SetBurstDelays(cfg.BurstDelays())
	monitor.SetTracked(ports.Tracked(projects))

	model := ui.NewPanel(ui.PanelConfig{
		Projects:   projects,
		Baseline:   baseline,
		Runner:     runner,
		Monitor:    monitor,
		Scratch:    scratch.NewStore(scratch.DefaultDir()),
		OpenURL:    o2.OpenURL,
		InitialLog: initialLog,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("panel failed: %w", err)
	}
	return nil
}
