package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/radlabs/radcontrol/internal/config"
	"github.com/radlabs/radcontrol/internal/o2"
	"github.com/radlabs/radcontrol/internal/ports"
	"github.com/radlabs/radcontrol/internal/registry"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-shot port status sweep over the tracked ports",
	Long: `The status command sweeps every tracked port once (every project port
plus the panel's own port) and prints a table.

By default ports are probed through the whitelisted port-status script.
With --local the local TCP table is read directly instead, for hosts
where the O2 workspace is not available.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("local", false, "Probe the local TCP table instead of the port-status script")
	statusCmd.Flags().StringP("config", "c", "", "Path to the configuration file (default ~/.radcontrol.yaml)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	local, _ := cmd.Flags().GetBool("local")
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
		fmt.Printf("⚠️  registry: %v\n", regErr)
	}

	var querier ports.Querier = ports.ShellQuerier{Run: runner.Run}
	if local {
		querier = ports.LocalQuerier{}
	}

	tracked := ports.Tracked(projects)
	statuses := ports.Sweep(querier, tracked)

	labels := make(map[int]string, len(projects))
	for _, p := range projects {
		if p.Port > 0 {
			labels[p.Port] = p.DisplayLabel()
		}
	}
	labels[ports.SelfPort] = "(self)"

	swept := make([]int, 0, len(statuses))
	for port := range statuses {
		swept = append(swept, port)
	}
	sort.Ints(swept)

	for _, port := range swept {
		st := statuses[port]
		switch {
		case st.Err != "":
			fmt.Printf("✗ %5d  %-12s probe failed: %s\n", port, labels[port], st.Err)
		case st.Listening:
			detail := ""
			if st.PID > 0 {
				detail = fmt.Sprintf(" %s pid %d", st.Command, st.PID)
			}
			fmt.Printf("● %5d  %-12s listening%s\n", port, labels[port], detail)
		default:
			fmt.Printf("○ %5d  %-12s stopped\n", port, labels[port])
		}
	}
	return nil
}
