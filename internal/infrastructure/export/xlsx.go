// Package export renders report rows as downloadable spreadsheet and PDF
// documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aph/pathlabel/internal/core/ports"
)

const sheetName = "Patients"

// SpreadsheetHeader is the first row of the exported sheet.
var SpreadsheetHeader = []string{
	"SNo",
	"Path ID",
	"UHID",
	"Patient Name",
	"Age",
	"Gender",
	"Barcode",
	"Date",
	"Time",
	"User ID",
}

var spreadsheetColumnWidths = []float64{
	6,  // SNo
	16, // Path ID
	14, // UHID
	28, // Patient Name
	6,  // Age
	10, // Gender
	16, // Barcode
	12, // Date
	14, // Time
	18, // User ID
}

// Exporter implements ports.ReportExporter.
type Exporter struct{}

func NewExporter() *Exporter { return &Exporter{} }

// Spreadsheet writes rows to a single "Patients" sheet with a frozen header.
func (e *Exporter) Spreadsheet(rows []ports.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#2980B9"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(SpreadsheetHeader))
	for i, h := range SpreadsheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(SpreadsheetHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, width := range spreadsheetColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{r.SNo, r.PathID, r.UHID, r.PatientName, r.Age, r.Gender, r.Barcode, r.Date, r.Time, r.User}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r.SNo, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
