// Package export turns a filtered log sequence into the Log History spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"loghistory-backend/internal/model"
	"loghistory-backend/internal/util"
)

const (
	SheetName       = "Log History"
	DefaultFilename = "Log_History.xlsx"
)

// Columns is the fixed column order of the export.
var Columns = []string{"Entity", "Entity Name", "Field", "Old Value", "New Value", "Changed By", "Date/Time", "Change Type"}

// Row is one flat export record.
type Row struct {
	Entity     string
	EntityName string
	Field      string
	OldValue   string
	NewValue   string
	ChangedBy  string
	DateTime   string
	ChangeType string
}

func (r Row) cells() []interface{} {
	return []interface{}{r.Entity, r.EntityName, r.Field, r.OldValue, r.NewValue, r.ChangedBy, r.DateTime, r.ChangeType}
}

// Rows flattens entries. Structured values become JSON text, null values N/A,
// and timestamps are rendered in loc using layout.
func Rows(entries []model.LogEntry, loc *time.Location, layout string) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{
			Entity:     e.EntityType.Label(),
			EntityName: e.EntityName,
			Field:      e.Field,
			OldValue:   util.FormatValue(e.OldValue),
			NewValue:   util.FormatValue(e.NewValue),
			ChangedBy:  e.ChangedByText(),
			DateTime:   util.FormatDisplayTime(e.ChangedAt, loc, layout, util.NotAvailable),
			ChangeType: e.ChangeType,
		}
	}
	return rows
}

// WriteXLSX writes rows under a header line to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.cells()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadXLSX decodes a workbook produced by WriteXLSX.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	lines, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("sheet %q has no header", SheetName)
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cell := func(i int) string {
			if i < len(line) {
				return line[i]
			}
			return ""
		}
		rows = append(rows, Row{
			Entity:     cell(0),
			EntityName: cell(1),
			Field:      cell(2),
			OldValue:   cell(3),
			NewValue:   cell(4),
			ChangedBy:  cell(5),
			DateTime:   cell(6),
			ChangeType: cell(7),
		})
	}
	return rows, nil
}
