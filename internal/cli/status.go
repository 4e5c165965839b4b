package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server readiness and dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ready, err := apiClient.Ready(cmd.Context())
			if err != nil {
				return fmt.Errorf("server not ready: %w", err)
			}

			d, err := apiClient.Dashboard(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(d)
			}

			fmt.Println("cisaudit Dashboard")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Server:        %s (%d migrations)\n", ready.Status, ready.Migrations)
			fmt.Printf("  Platforms:     %d\n", len(d.Platforms))
			fmt.Printf("  Benchmarks:    %d\n", len(d.Benchmarks))
			fmt.Printf("  Checks:        %d\n", d.TotalChecks)

			if len(d.RecentSessions) == 0 {
				fmt.Println("\nNo audits yet. Start one with 'cisaudit audit new <benchmark-id>'.")
				return nil
			}

			fmt.Println("\nRecent audits:")
			table := NewTable("ID", "TARGET", "BENCHMARK", "STATUS", "PROGRESS")
			for _, s := range d.RecentSessions {
				benchmark := ""
				if s.Benchmark != nil {
					benchmark = truncate(s.Benchmark.Name, 40)
				}
				table.AddRow(
					fmt.Sprintf("%d", s.ID),
					s.TargetName,
					benchmark,
					formatStatus(s.Status),
					fmt.Sprintf("%d%%", s.Progress),
				)
			}
			table.Render()
			return nil
		},
	}
}
