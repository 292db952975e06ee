package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Writer persists one ordered record set to a destination path. The
// orchestrator calls it exactly once per chunk.
type Writer interface {
	Write(path string, records []Record) error
	Ext() string
}

// NewWriter selects a writer by format name ("csv" or "xlsx").
func NewWriter(format string) (Writer, error) {
	switch format {
	case "csv":
		return CSVWriter{}, nil
	case "xlsx":
		return XLSXWriter{}, nil
	default:
		return nil, fmt.Errorf("report: unsupported format %q", format)
	}
}

type CSVWriter struct{}

func (CSVWriter) Ext() string { return "csv" }

func (CSVWriter) Write(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.row()); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

type XLSXWriter struct{}

func (XLSXWriter) Ext() string { return "xlsx" }

func (XLSXWriter) Write(path string, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRow(f, sheet, 1, Header()); err != nil {
		return err
	}
	for i, r := range records {
		if err := writeRow(f, sheet, i+2, r.row()); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
