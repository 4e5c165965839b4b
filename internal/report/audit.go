package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pratik-mahalle/cisaudit/internal/domain/audit"
	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
	"github.com/pratik-mahalle/cisaudit/internal/domain/user"
)

// AuditInput is a session with everything its report prints. Results are
// ordered by check number and carry their checks; Summary is computed from
// the same results.
type AuditInput struct {
	Session   *audit.Session
	Benchmark *catalog.Benchmark
	Auditor   *user.User
	Results   []*audit.Result
	Summary   audit.Summary
}

// Audit renders a session as Cover, Checklist and Summary sheets. When the
// session has results the Summary carries a pie chart fed from a hidden
// _chart_data sheet.
func Audit(in AuditInput) ([]byte, error) {
	b, err := newBook()
	if err != nil {
		return nil, err
	}
	defer b.close()

	s := in.Session
	started := ""
	if !s.StartedAt.IsZero() {
		started = s.StartedAt.UTC().Format(TimeLayout)
	}
	completed := "In Progress"
	if s.CompletedAt != nil {
		completed = s.CompletedAt.UTC().Format(TimeLayout)
	}
	auditor := ""
	if in.Auditor != nil {
		auditor = in.Auditor.Name()
	}

	b.coverSheet("Audit Report: "+s.TargetName, []field{
		{"Benchmark:", in.Benchmark.Name},
		{"Version:", in.Benchmark.Version},
		{"Platform:", platformName(in.Benchmark.Platform)},
		{},
		{"Target System:", s.TargetName},
		{"Target IP:", s.TargetIP},
		{"Auditor:", auditor},
		{"Started:", started},
		{"Completed:", completed},
		{"Status:", s.StatusDisplay()},
		{},
		{"Notes:", s.Notes},
	})

	rows := make([]checklistRow, 0, len(in.Results))
	for i, r := range in.Results {
		rows = append(rows, checklistRow{
			values: checkValues(r.Check, audit.StatusDisplay(r.Status), r.Finding),
			style:  b.resultStyle(i+1, r.Status),
		})
	}
	b.checklistSheet(rows)

	b.summarySheet(in.Summary)

	return b.bytes()
}

// resultStyle colors a row by status. Unchecked rows use the plain bands.
func (b *book) resultStyle(row int, status string) int {
	switch status {
	case audit.StatusPass:
		return b.styles.pass
	case audit.StatusFail:
		return b.styles.fail
	case audit.StatusNotApplicable:
		return b.styles.na
	default:
		return b.styles.bandStyle(row, false)
	}
}

func (b *book) summarySheet(sum audit.Summary) {
	b.sheet(SheetSummary)
	b.hideGridlines(SheetSummary)
	b.width(SheetSummary, "A", 25)
	b.width(SheetSummary, "B", 20)
	b.width(SheetSummary, "C", 15)

	row := 1
	b.title(SheetSummary, row, 2, "Audit Summary")
	row += 2

	stats := []struct {
		label string
		value int
	}{
		{"Total Checks:", sum.Total},
		{"Checked:", sum.Checked},
		{"Not Checked:", sum.NotChecked},
		{"", 0},
		{"Pass:", sum.Pass},
		{"Fail:", sum.Fail},
		{"Not Applicable:", sum.NotApplicable},
		{"", 0},
	}
	for _, st := range stats {
		if st.label != "" {
			b.set(SheetSummary, 0, row, st.label, b.styles.statLabel)
			b.set(SheetSummary, 1, row, st.value, b.styles.statValue)
		}
		row++
	}

	b.set(SheetSummary, 0, row, "Compliance Rate:", b.styles.statLabel)
	b.set(SheetSummary, 1, row, sum.ComplianceRate, b.styles.statPct)
	row += 2

	b.set(SheetSummary, 0, row, "Compliance by Section", b.styles.subtitle)
	row++
	b.set(SheetSummary, 0, row, "Section", b.styles.header)
	b.set(SheetSummary, 1, row, "Pass / Checked", b.styles.header)
	b.set(SheetSummary, 2, row, "Rate", b.styles.header)
	row++

	for _, sec := range sum.Sections {
		style := b.styles.cell
		if row%2 == 0 {
			style = b.styles.cellAlt
		}
		b.set(SheetSummary, 0, row, sec.Label, style)
		b.set(SheetSummary, 1, row, fmt.Sprintf("%d / %d", sec.Pass, sec.Checked), style)
		b.set(SheetSummary, 2, row, sec.ComplianceRate, b.styles.statPct)
		row++
	}

	if sum.Total > 0 {
		b.resultsChart(sum.Counts, row+2)
	}
}

// resultsChart writes the status counts to the hidden data sheet and places
// a pie chart of them at the given zero-based row of the Summary sheet.
func (b *book) resultsChart(c audit.Counts, row int) {
	b.sheet(SheetChartData)
	for i, v := range []int{c.Pass, c.Fail, c.NotApplicable, c.NotChecked} {
		b.set(SheetChartData, 0, i, StatusChoices[i], 0)
		b.set(SheetChartData, 1, i, v, 0)
	}
	if b.err != nil {
		return
	}
	if b.err = b.f.SetSheetVisible(SheetChartData, false); b.err != nil {
		return
	}

	points := make([]excelize.ChartDataPoint, len(chartColors))
	for i, color := range chartColors {
		points[i] = excelize.ChartDataPoint{Index: i, Fill: solid(color)}
	}

	cell, _ := excelize.CoordinatesToCellName(1, row+1)
	b.err = b.f.AddChart(SheetSummary, cell, &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       "Audit Results",
			Categories: fmt.Sprintf("'%s'!$A$1:$A$4", SheetChartData),
			Values:     fmt.Sprintf("'%s'!$B$1:$B$4", SheetChartData),
			DataPoint:  points,
		}},
		Title:     []excelize.RichTextRun{{Text: "Results Distribution"}},
		Dimension: excelize.ChartDimension{Width: 480, Height: 360},
	})
}
