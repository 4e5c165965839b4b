// Package report renders benchmark checklists and audit results as xlsx
// workbooks. The generators are pure: they take fully loaded inputs and
// return the workbook bytes.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetCover     = "Cover"
	SheetChecklist = "Checklist"
	SheetSummary   = "Summary"
	SheetChartData = "_chart_data"
)

// TimeLayout is how timestamps are printed in workbooks
const TimeLayout = "2006-01-02 15:04 UTC"

// book wraps an excelize file and keeps the first error of a run of writes
type book struct {
	f      *excelize.File
	styles styles
	sheets int
	err    error
}

type field struct {
	label string
	value string
}

func newBook() (*book, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &book{f: f, styles: st}, nil
}

func (b *book) close() {
	b.f.Close()
}

// sheet creates a sheet, renaming the default one for the first call
func (b *book) sheet(name string) {
	if b.err != nil {
		return
	}
	b.sheets++
	if b.sheets == 1 {
		b.err = b.f.SetSheetName("Sheet1", name)
		return
	}
	_, b.err = b.f.NewSheet(name)
}

// set writes v at the zero-based (col, row) with an optional style
func (b *book) set(sheet string, col, row int, v interface{}, style int) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		b.err = err
		return
	}
	if b.err = b.f.SetCellValue(sheet, cell, v); b.err != nil {
		return
	}
	if style != 0 {
		b.err = b.f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (b *book) width(sheet, col string, w float64) {
	if b.err != nil {
		return
	}
	b.err = b.f.SetColWidth(sheet, col, col, w)
}

func (b *book) hideGridlines(sheet string) {
	if b.err != nil {
		return
	}
	off := false
	b.err = b.f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &off})
}

// title writes a merged title across columns [0, lastCol] of a row
func (b *book) title(sheet string, row, lastCol int, text string) {
	if b.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(1, row+1)
	to, _ := excelize.CoordinatesToCellName(lastCol+1, row+1)
	if b.err = b.f.MergeCell(sheet, from, to); b.err != nil {
		return
	}
	b.set(sheet, 0, row, text, b.styles.title)
	if b.err == nil && lastCol > 0 {
		b.err = b.f.SetCellStyle(sheet, from, to, b.styles.title)
	}
}

// coverSheet writes the title across A2:B2 and then label/value pairs from row 4.
// An empty label leaves a blank row.
func (b *book) coverSheet(title string, fields []field) {
	b.sheet(SheetCover)
	b.hideGridlines(SheetCover)
	b.width(SheetCover, "A", 25)
	b.width(SheetCover, "B", 60)

	row := 1
	b.title(SheetCover, row, 1, title)
	row += 2

	for _, fl := range fields {
		if fl.label != "" {
			b.set(SheetCover, 0, row, fl.label, b.styles.label)
			b.set(SheetCover, 1, row, fl.value, b.styles.value)
		}
		row++
	}
}

// checklistRow is one line of the Checklist sheet
type checklistRow struct {
	values [9]string
	style  int
}

// checklistSheet writes the header, rows, frozen pane and autofilter
func (b *book) checklistSheet(rows []checklistRow) {
	b.sheet(SheetChecklist)
	for i, h := range checklistHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		b.width(SheetChecklist, col, checklistWidths[i])
		b.set(SheetChecklist, i, 0, h, b.styles.header)
	}

	if b.err == nil {
		b.err = b.f.SetPanes(SheetChecklist, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	for i, r := range rows {
		for col, v := range r.values {
			b.set(SheetChecklist, col, i+1, v, r.style)
		}
	}

	if len(rows) > 0 && b.err == nil {
		b.err = b.f.AutoFilter(SheetChecklist, fmt.Sprintf("A1:I%d", len(rows)+1), nil)
	}
}

// statusDropDown restricts the Status column of rows 2..n+1 to StatusChoices
func (b *book) statusDropDown(n int) {
	if b.err != nil || n == 0 {
		return
	}
	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("G2:G%d", n+1)
	if b.err = dv.SetDropList(StatusChoices); b.err != nil {
		return
	}
	b.err = b.f.AddDataValidation(SheetChecklist, dv)
}

// bytes activates the first sheet and serializes the workbook
func (b *book) bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.f.SetActiveSheet(0)
	buf, err := b.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
