package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aph/pathlabel/internal/core/ports"
)

func sampleRows(n int) []ports.ReportRow {
	rows := make([]ports.ReportRow, 0, n)
	users := []string{"Asha", "E2", "N/A"}
	for i := 0; i < n; i++ {
		rows = append(rows, ports.ReportRow{
			SNo:         i + 1,
			Date:        "2025-01-01",
			Time:        "10:00:00 AM",
			PathID:      fmt.Sprintf("PTH-%03d", i+1),
			UHID:        fmt.Sprintf("%d", 1000+i),
			PatientName: "Ravi Kumar",
			Age:         42,
			Gender:      "male",
			Barcode:     fmt.Sprintf("PTH-%03d", i+1),
			User:        users[i%len(users)],
		})
	}
	return rows
}

func TestExporter_Spreadsheet(t *testing.T) {
	rows := sampleRows(3)

	out, err := NewExporter().Spreadsheet(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Patients"}, f.GetSheetList())

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, len(rows)+1, "header plus one line per row")
	assert.Equal(t, SpreadsheetHeader, got[0])

	for i, line := range got[1:] {
		assert.Equal(t, fmt.Sprintf("%d", i+1), line[0], "serial number")
		assert.Equal(t, rows[i].PathID, line[1])
		assert.Equal(t, rows[i].User, line[len(line)-1])
	}
	assert.Equal(t, "N/A", got[3][9])
}

func TestExporter_Spreadsheet_Empty(t *testing.T) {
	out, err := NewExporter().Spreadsheet(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExporter_Document(t *testing.T) {
	out, err := NewExporter().Document(sampleRows(5))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output must be a PDF")
}

func TestBuildDocument_Paginates(t *testing.T) {
	require.Equal(t, 1, buildDocument(sampleRows(10)).PageCount())

	pdf := buildDocument(sampleRows(120))
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageCount(), 1)
}

func TestDocumentColumns(t *testing.T) {
	var titles []string
	var width float64
	for _, c := range documentColumns {
		titles = append(titles, c.title)
		width += c.width
	}
	assert.Equal(t, []string{"SNo", "Date", "Time", "Path ID", "UHID", "Patient Name", "Age", "Gender", "User ID"}, titles)
	assert.InDelta(t, 190.0, width, 0.001)

	row := sampleRows(3)[2]
	assert.Equal(t, "3", documentColumns[0].value(row))
	assert.Equal(t, "N/A", documentColumns[8].value(row))
}

func TestRowCells_WrapsLongValues(t *testing.T) {
	pdf := buildDocument(nil)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	short := sampleRows(1)[0]
	cells, height := rowCells(pdf, tr, short)
	assert.Equal(t, rowHeight, height)
	for _, lines := range cells {
		assert.Len(t, lines, 1)
	}

	long := short
	long.PatientName = "Venkata Subramanya Lakshmi Narasimha Chakravarthy Raghunathan"
	cells, height = rowCells(pdf, tr, long)
	assert.Greater(t, len(cells[5]), 1, "long name must wrap inside its column")
	assert.Greater(t, height, rowHeight)
	for _, line := range cells[5] {
		assert.LessOrEqual(t, pdf.GetStringWidth(line), documentColumns[5].width)
	}
}

func TestBuildDocument_TallRowsPaginateEarlier(t *testing.T) {
	rows := sampleRows(40)
	for i := range rows {
		rows[i].PatientName = "Venkata Subramanya Lakshmi Narasimha Chakravarthy Raghunathan"
	}

	pdf := buildDocument(rows)
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageCount(), buildDocument(sampleRows(40)).PageCount())
}
