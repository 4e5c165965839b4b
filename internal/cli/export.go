package cli

import (
	"fmt"
	"os"

	"github.com/pratik-mahalle/cisaudit/pkg/client"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download xlsx workbooks",
	}

	cmd.AddCommand(newExportChecklistCmd())
	cmd.AddCommand(newExportAuditCmd())

	return cmd
}

func newExportChecklistCmd() *cobra.Command {
	var level int
	var scoredOnly bool
	var file string

	cmd := &cobra.Command{
		Use:   "checklist <benchmark-id>",
		Short: "Download the blank checklist of a benchmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if level != 0 && level != 1 && level != 2 {
				return fmt.Errorf("invalid level %d: use 1 or 2", level)
			}

			d, err := apiClient.Exports().Checklist(cmd.Context(), id, &client.ChecklistOptions{
				Level:      level,
				ScoredOnly: scoredOnly,
			})
			if err != nil {
				return fmt.Errorf("failed to export checklist: %w", err)
			}
			return saveDownload(d, file)
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "only checks of this level (1 or 2)")
	cmd.Flags().BoolVar(&scoredOnly, "scored-only", false, "only scored checks")
	cmd.Flags().StringVarP(&file, "file", "f", "", "output file (default: server-provided name)")

	return cmd
}

func newExportAuditCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "audit <audit-id>",
		Short: "Download the report of an audit session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			d, err := apiClient.Exports().Audit(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to export audit: %w", err)
			}
			return saveDownload(d, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "output file (default: server-provided name)")

	return cmd
}

// saveDownload writes a workbook, "-" meaning stdout
func saveDownload(d *client.Download, path string) error {
	if path == "-" {
		_, err := os.Stdout.Write(d.Data)
		return err
	}
	if path == "" {
		path = d.Filename
	}
	if path == "" {
		path = "export.xlsx"
	}
	if err := os.WriteFile(path, d.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Saved %s (%d bytes)\n", path, len(d.Data))
	return nil
}
