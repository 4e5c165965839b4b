package report

import (
	"github.com/xuri/excelize/v2"
)

// Column layout shared by the checklist and audit sheets
var (
	checklistHeaders = []string{
		"Check #", "Title", "Level", "Scored",
		"Audit Command / Steps", "Expected Output",
		"Status", "Findings", "Remediation",
	}
	checklistWidths = []float64{12, 40, 8, 10, 55, 40, 14, 40, 45}
)

// StatusChoices are the values offered in the Status column drop-down
var StatusChoices = []string{"Pass", "Fail", "N/A", "Not Checked"}

// Pie slice colors in StatusChoices order
var chartColors = []string{"#28A745", "#DC3545", "#6C757D", "#FFC107"}

type styles struct {
	title     int
	subtitle  int
	header    int
	label     int
	value     int
	cell      int
	cellAlt   int
	cellL2    int
	cellL2Alt int
	pass      int
	fail      int
	na        int
	statLabel int
	statValue int
	statPct   int
}

var cellBorder = []excelize.Border{
	{Type: "left", Color: "#000000", Style: 1},
	{Type: "top", Color: "#000000", Style: 1},
	{Type: "right", Color: "#000000", Style: 1},
	{Type: "bottom", Color: "#000000", Style: 1},
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// tableCell is the bordered, wrapped, top-aligned body cell
func tableCell(fill, fontColor string) *excelize.Style {
	s := &excelize.Style{
		Border:    cellBorder,
		Font:      &excelize.Font{Size: 10, Color: fontColor},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}
	if fill != "" {
		s.Fill = solid(fill)
	}
	return s
}

func newStyles(f *excelize.File) (styles, error) {
	pct := "0.0%"
	var s styles

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 18, Color: "#1A1A2E"},
			Border: []excelize.Border{{Type: "bottom", Color: "#16213E", Style: 2}},
		}},
		{&s.subtitle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: "#16213E"}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
			Fill:      solid("#1A1A2E"),
			Border:    cellBorder,
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "center"},
		}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11, Color: "#16213E"}}},
		{&s.value, &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{&s.cell, tableCell("", "")},
		{&s.cellAlt, tableCell("#F0F0F5", "")},
		{&s.cellL2, tableCell("#FFF8E1", "")},
		{&s.cellL2Alt, tableCell("#FFF3CD", "")},
		{&s.pass, tableCell("#D4EDDA", "#155724")},
		{&s.fail, tableCell("#F8D7DA", "#721C24")},
		{&s.na, tableCell("#E2E3E5", "#383D41")},
		{&s.statLabel, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 12},
			Border: []excelize.Border{{Type: "right", Color: "#000000", Style: 1}},
		}},
		{&s.statValue, &excelize.Style{Font: &excelize.Font{Size: 12}, NumFmt: 1}},
		{&s.statPct, &excelize.Style{Font: &excelize.Font{Size: 12}, CustomNumFmt: &pct}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, err
		}
		*d.dst = id
	}
	return s, nil
}

// bandStyle picks the banded body style for a 1-based data row
func (s styles) bandStyle(row int, level2 bool) int {
	even := row%2 == 0
	switch {
	case level2 && even:
		return s.cellL2Alt
	case level2:
		return s.cellL2
	case even:
		return s.cellAlt
	default:
		return s.cell
	}
}
