// Package export renders trajectory samples as an .xlsx workbook.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the samples.
const SheetName = "Trajectories"

const timestampLayout = "2006-01-02 15:04:05"

// Row is one trajectory sample.
type Row struct {
	TaxiID    uint64
	Plate     string
	Date      time.Time
	Latitude  float64
	Longitude float64
}

var header = []interface{}{"Taxi ID", "Plate", "Date", "Latitude", "Longitude"}

// Workbook writes a header row followed by one row per sample and returns
// the encoded workbook.
func Workbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.TaxiID, r.Plate, r.Date.UTC().Format(timestampLayout), r.Latitude, r.Longitude}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(SheetName, "B", "C", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
