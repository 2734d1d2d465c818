package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name used by WriteXLSX when none is given.
const DefaultSheet = "Results"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	labelStyle  = lipgloss.NewStyle().Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// Records returns the table as string rows. The first record is the header:
// an empty corner cell followed by the model names.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, append([]string{""}, t.columns...))
	for i, label := range t.rows {
		rec := make([]string, 0, len(t.columns)+1)
		rec = append(rec, label)
		for _, c := range t.cells[i] {
			rec = append(rec, c.Text)
		}
		records = append(records, rec)
	}
	return records
}

// String renders the table for a terminal.
func (t *Table) String() string {
	records := t.Records()
	lt := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(records[0]...).
		Rows(records[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
	return lt.String()
}

// WriteCSV writes Records as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("table: write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the table as a single-sheet workbook. Statistic cells
// are stored as numbers and coefficient cells as text, since they carry
// significance markers.
func (t *Table) WriteXLSX(w io.Writer, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("table: name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("table: create style: %w", err)
	}

	set := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	for j, name := range t.columns {
		if err := set(j+2, 1, name); err != nil {
			return fmt.Errorf("table: write header: %w", err)
		}
	}
	for i, label := range t.rows {
		if err := set(1, i+2, label); err != nil {
			return fmt.Errorf("table: write row label: %w", err)
		}
		for j, c := range t.cells[i] {
			var value any
			switch {
			case c.Kind == EmptyCell:
				continue
			case c.Kind == StatisticCell && !math.IsNaN(c.Value) && !math.IsInf(c.Value, 0):
				value = c.Value
			default:
				value = c.Text
			}
			if err := set(j+2, i+2, value); err != nil {
				return fmt.Errorf("table: write cell: %w", err)
			}
		}
	}

	last, err := excelize.CoordinatesToCellName(len(t.columns)+1, 1)
	if err != nil {
		return fmt.Errorf("table: style header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("table: style header: %w", err)
	}
	if len(t.rows) > 0 {
		end, err := excelize.CoordinatesToCellName(1, len(t.rows)+1)
		if err != nil {
			return fmt.Errorf("table: style labels: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A2", end, bold); err != nil {
			return fmt.Errorf("table: style labels: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("table: write xlsx: %w", err)
	}
	return nil
}
