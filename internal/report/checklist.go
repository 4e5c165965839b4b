package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
)

// ChecklistInput is what a blank fieldwork checklist is built from. Checks
// are already filtered and ordered.
type ChecklistInput struct {
	Benchmark   *catalog.Benchmark
	Platform    *catalog.Platform
	ExportedAt  time.Time
	TotalChecks int
	Checks      []*catalog.Check
}

// Checklist renders a workbook with a Cover sheet describing the benchmark
// and a Checklist sheet with one row per check and blank Status/Findings
// columns for the auditor.
func Checklist(in ChecklistInput) ([]byte, error) {
	b, err := newBook()
	if err != nil {
		return nil, err
	}
	defer b.close()

	bm := in.Benchmark
	release := bm.ReleaseDateString()
	if release == "" {
		release = "N/A"
	}

	b.coverSheet(bm.Name, []field{
		{"Benchmark:", bm.Name},
		{"Version:", bm.Version},
		{"Platform:", platformName(in.Platform)},
		{"Release Date:", release},
		{"Description:", bm.Description},
		{"Reference URL:", bm.URL},
		{},
		{"Export Date:", in.ExportedAt.UTC().Format(TimeLayout)},
		{"Total Checks:", strconv.Itoa(in.TotalChecks)},
		{},
		{"Target System:", ""},
		{"Target IP:", ""},
		{"Auditor Name:", ""},
		{"Audit Date:", ""},
	})

	rows := make([]checklistRow, 0, len(in.Checks))
	for i, c := range in.Checks {
		rows = append(rows, checklistRow{
			values: checkValues(c, "", ""),
			style:  b.styles.bandStyle(i+1, c.Level == catalog.Level2),
		})
	}
	b.checklistSheet(rows)
	b.statusDropDown(len(rows))

	return b.bytes()
}

// checkValues lays out a check in checklist column order
func checkValues(c *catalog.Check, status, finding string) [9]string {
	scored := "No"
	if c.Scored {
		scored = "Yes"
	}
	return [9]string{
		c.CheckNumber,
		c.Title,
		c.LevelDisplay(),
		scored,
		c.AuditText(),
		strings.TrimSpace(c.ExpectedOutput),
		status,
		finding,
		strings.TrimSpace(c.Remediation),
	}
}

func platformName(p *catalog.Platform) string {
	if p == nil {
		return ""
	}
	return p.Name
}
