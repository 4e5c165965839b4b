package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newBenchmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "benchmark",
		Aliases: []string{"benchmarks", "bm"},
		Short:   "Browse the benchmark catalog",
	}

	cmd.AddCommand(newBenchmarkListCmd())
	cmd.AddCommand(newBenchmarkGetCmd())

	return cmd
}

func newBenchmarkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			benchmarks, err := apiClient.Benchmarks().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list benchmarks: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(benchmarks)
			}

			if len(benchmarks) == 0 {
				fmt.Println("No benchmarks loaded. Run the migrate command to seed the catalog.")
				return nil
			}

			table := NewTable("ID", "PLATFORM", "NAME", "VERSION", "CHECKS")
			for _, b := range benchmarks {
				platform := ""
				if b.Platform != nil {
					platform = b.Platform.Name
				}
				table.AddRow(
					fmt.Sprintf("%d", b.ID),
					platform,
					truncate(b.Name, 50),
					b.Version,
					fmt.Sprintf("%d", b.TotalChecks),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newBenchmarkGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a benchmark and its top-level sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			detail, err := apiClient.Benchmarks().Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get benchmark: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(detail)
			}

			b := detail.Benchmark
			fmt.Printf("Name:     %s\n", b.Name)
			fmt.Printf("Version:  %s\n", b.Version)
			if b.Platform != nil {
				fmt.Printf("Platform: %s\n", b.Platform.Name)
			}
			if b.ReleaseDate != nil {
				fmt.Printf("Released: %s\n", b.ReleaseDate.Format("2006-01-02"))
			}
			fmt.Printf("Checks:   %d\n", b.TotalChecks)
			if b.URL != "" {
				fmt.Printf("URL:      %s\n", b.URL)
			}

			if len(detail.Sections) > 0 {
				fmt.Println()
				table := NewTable("SECTION", "TITLE", "CHECKS")
				for _, s := range detail.Sections {
					table.AddRow(s.Number, truncate(s.Title, 60), fmt.Sprintf("%d", s.TotalChecks))
				}
				table.Render()
			}
			return nil
		},
	}
}

// parseID reads a positive numeric identifier argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}
