// Package export renders attendance rows as CSV or XLSX documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"ems-backend/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

// ErrNoRows is returned when there is nothing to export
var ErrNoRows = domain.ErrNoAttendanceRecords

// Header lists the exported columns in order
var Header = []string{"Employee ID", "Name", "Clock In", "Clock Out", "Total Hours"}

// NotAvailable is written for an open session's clock-out
const NotAvailable = "N/A"

// SheetName is the worksheet used for XLSX exports
const SheetName = "Attendance"

// Row is one attendance record with its employee name already resolved
type Row struct {
	EmployeeID string
	Name       string
	ClockIn    time.Time
	ClockOut   *time.Time
	TotalHours float64
}

// FormatTimestamp renders t as an ISO-8601 UTC timestamp with milliseconds
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FormatHours renders hours with two decimals
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// Record projects the row onto the exported columns
func (r Row) Record() []string {
	clockOut := NotAvailable
	if r.ClockOut != nil {
		clockOut = FormatTimestamp(*r.ClockOut)
	}
	return []string{
		r.EmployeeID,
		r.Name,
		FormatTimestamp(r.ClockIn),
		clockOut,
		FormatHours(r.TotalHours),
	}
}

// ToCSV encodes rows with a header line
func ToCSV(rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToXLSX encodes rows into a single-sheet workbook
func ToXLSX(rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	if err := setRow(f, 1, Header); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r.Record()); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}
