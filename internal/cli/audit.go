package cli

import (
	"fmt"
	"strings"

	"github.com/pratik-mahalle/cisaudit/pkg/client"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "audit",
		Aliases: []string{"audits"},
		Short:   "Run and review audit sessions",
	}

	cmd.AddCommand(newAuditListCmd())
	cmd.AddCommand(newAuditGetCmd())
	cmd.AddCommand(newAuditNewCmd())
	cmd.AddCommand(newAuditSetCmd())
	cmd.AddCommand(newAuditCompleteCmd())
	cmd.AddCommand(newAuditDeleteCmd())

	return cmd
}

func newAuditListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your audit sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := apiClient.Audits().List(cmd.Context(), &client.ListOptions{
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list audits: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(list)
			}

			if len(list.Data) == 0 {
				fmt.Println("No audits found.")
				return nil
			}

			table := NewTable("ID", "TARGET", "IP", "BENCHMARK", "STATUS", "PROGRESS", "STARTED")
			for _, s := range list.Data {
				benchmark := ""
				if s.Benchmark != nil {
					benchmark = truncate(s.Benchmark.Name, 40)
				}
				table.AddRow(
					fmt.Sprintf("%d", s.ID),
					s.TargetName,
					s.TargetIP,
					benchmark,
					formatStatus(s.Status),
					fmt.Sprintf("%d%%", s.Progress),
					s.StartedAt.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			fmt.Printf("\nPage %d of %d (%d audits)\n", list.Page, list.TotalPages, list.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "audits per page")

	return cmd
}

func newAuditGetCmd() *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an audit session with its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			detail, err := apiClient.Audits().Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get audit: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(detail)
			}

			printSessionHeader(detail.Session)

			sum := detail.Summary
			fmt.Printf("Results:  %d pass, %d fail, %d n/a, %d not checked (%s compliant)\n\n",
				sum.Pass, sum.Fail, sum.NotApplicable, sum.NotChecked, formatPercent(sum.ComplianceRate))

			table := NewTable("CHECK", "ID", "LEVEL", "TITLE", "RESULT", "FINDING")
			for _, r := range detail.Results {
				if failedOnly && r.Status != "fail" {
					continue
				}
				number, title, level := "", "", ""
				if r.Check != nil {
					number = r.Check.CheckNumber
					title = truncate(r.Check.Title, 60)
					level = fmt.Sprintf("L%d", r.Check.Level)
				}
				table.AddRow(
					number,
					fmt.Sprintf("%d", r.CheckID),
					level,
					title,
					formatResult(r.Status),
					truncate(strings.ReplaceAll(r.Finding, "\n", " "), 40),
				)
			}
			table.Render()

			if len(sum.Sections) > 0 {
				fmt.Println()
				sections := NewTable("SECTION", "PASS", "CHECKED", "COMPLIANCE")
				for _, s := range sum.Sections {
					sections.AddRow(
						truncate(s.Label, 50),
						fmt.Sprintf("%d", s.Pass),
						fmt.Sprintf("%d", s.Checked),
						formatPercent(s.ComplianceRate),
					)
				}
				sections.Render()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "only show failed checks")

	return cmd
}

func newAuditNewCmd() *cobra.Command {
	var target, ip, notes string

	cmd := &cobra.Command{
		Use:   "new <benchmark-id>",
		Short: "Start an audit session against a benchmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			benchmarkID, err := parseID(args[0])
			if err != nil {
				return err
			}

			resp, err := apiClient.Audits().Create(cmd.Context(), client.CreateAuditRequest{
				BenchmarkID: benchmarkID,
				TargetName:  target,
				TargetIP:    ip,
				Notes:       notes,
			})
			if err != nil {
				return fmt.Errorf("failed to start audit: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(resp)
			}

			fmt.Printf("Audit %d started for %s with %d checks\n",
				resp.Session.ID, resp.Session.TargetName, resp.ChecksCreated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "target host name")
	cmd.Flags().StringVar(&ip, "ip", "", "target IP address")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func newAuditSetCmd() *cobra.Command {
	var finding string

	cmd := &cobra.Command{
		Use:   "set <audit-id> <check> <status>",
		Short: "Record a check result (status: pass, fail, na, not_checked)",
		Long: `Record the result of one check in an audit session.

<check> is either the check number as printed in the benchmark (e.g. 1.1.1)
or the numeric check ID shown by 'cisaudit audit get'.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := parseResultStatus(args[2])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			detail, err := apiClient.Audits().Get(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("failed to get audit: %w", err)
			}
			checkID, err := resolveCheck(detail.Results, args[1])
			if err != nil {
				return err
			}

			result, err := apiClient.Audits().UpdateResult(ctx, sessionID, checkID, client.UpdateResultRequest{
				Status:  status,
				Finding: finding,
			})
			if err != nil {
				return fmt.Errorf("failed to update result: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			fmt.Printf("Check %s: %s\n", args[1], formatResult(result.Status))
			return nil
		},
	}

	cmd.Flags().StringVarP(&finding, "finding", "f", "", "observed finding")

	return cmd
}

func newAuditCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an audit session completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			session, err := apiClient.Audits().Complete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to complete audit: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(session)
			}

			fmt.Printf("Audit %d completed (%d%% checked)\n", session.ID, session.Progress)
			return nil
		},
	}
}

func newAuditDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an audit session and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				answer := promptInput(fmt.Sprintf("Delete audit %d? [y/N]: ", id))
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Println("Aborted")
					return nil
				}
			}

			if err := apiClient.Audits().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete audit: %w", err)
			}

			fmt.Printf("Audit %d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation")

	return cmd
}

func printSessionHeader(s *client.Session) {
	fmt.Printf("Audit:    %d\n", s.ID)
	fmt.Printf("Target:   %s", s.TargetName)
	if s.TargetIP != "" {
		fmt.Printf(" (%s)", s.TargetIP)
	}
	fmt.Println()
	if s.Benchmark != nil {
		fmt.Printf("Benchmark: %s v%s\n", s.Benchmark.Name, s.Benchmark.Version)
	}
	fmt.Printf("Status:   %s\n", formatStatus(s.Status))
	fmt.Printf("Started:  %s\n", s.StartedAt.Format("2006-01-02 15:04"))
	if s.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", s.CompletedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("Progress: %d%% (%d/%d)\n", s.Progress, s.Counts.Checked, s.Counts.Total)
	if s.Notes != "" {
		fmt.Printf("Notes:    %s\n", s.Notes)
	}
}

// parseResultStatus accepts the API status names plus a few short forms
func parseResultStatus(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "p":
		return "pass", nil
	case "fail", "f":
		return "fail", nil
	case "not_applicable", "na", "n/a":
		return "not_applicable", nil
	case "not_checked", "reset":
		return "not_checked", nil
	default:
		return "", fmt.Errorf("invalid status %q: use pass, fail, na or not_checked", s)
	}
}

// resolveCheck finds a result by check number, falling back to a numeric check ID
func resolveCheck(results []*client.Result, ref string) (int64, error) {
	for _, r := range results {
		if r.Check != nil && r.Check.CheckNumber == ref {
			return r.CheckID, nil
		}
	}
	id, err := parseID(ref)
	if err != nil {
		return 0, fmt.Errorf("check %q is not part of this audit", ref)
	}
	for _, r := range results {
		if r.CheckID == id {
			return id, nil
		}
	}
	return 0, fmt.Errorf("check %q is not part of this audit", ref)
}
