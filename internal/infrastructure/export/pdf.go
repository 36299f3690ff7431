package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/aph/pathlabel/internal/core/ports"
)

const (
	documentTitle = "Patient Report"
	pageMargin    = 10.0
	titleY        = 10.0
	tableStartY   = 20.0
	rowHeight     = 7.0
	lineHeight    = 4.5
)

type column struct {
	title string
	width float64
	value func(ports.ReportRow) string
}

// documentColumns span the 190mm printable width of an A4 portrait page.
var documentColumns = []column{
	{"SNo", 12, func(r ports.ReportRow) string { return strconv.Itoa(r.SNo) }},
	{"Date", 22, func(r ports.ReportRow) string { return r.Date }},
	{"Time", 24, func(r ports.ReportRow) string { return r.Time }},
	{"Path ID", 24, func(r ports.ReportRow) string { return r.PathID }},
	{"UHID", 20, func(r ports.ReportRow) string { return r.UHID }},
	{"Patient Name", 38, func(r ports.ReportRow) string { return r.PatientName }},
	{"Age", 10, func(r ports.ReportRow) string { return strconv.Itoa(r.Age) }},
	{"Gender", 16, func(r ports.ReportRow) string { return r.Gender }},
	{"User ID", 24, func(r ports.ReportRow) string { return r.User }},
}

// Document renders rows as a paginated grid table under a "Patient Report"
// title. The blue header row is repeated on every page and long values wrap
// inside their cell.
func (e *Exporter) Document(rows []ports.ReportRow) ([]byte, error) {
	pdf := buildDocument(rows)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocument(rows []ports.ReportRow) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - pageMargin

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 16)
	pdf.Text(90, titleY, documentTitle)
	pdf.SetY(tableStartY)
	writeHeader(pdf)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells, height := rowCells(pdf, tr, r)
		if pdf.GetY()+height > bottom {
			pdf.AddPage()
			writeHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}
		writeRow(pdf, cells, height)
	}
	return pdf
}

// rowCells wraps every value of r to its column width and returns the lines
// per column with the height of the tallest cell.
func rowCells(pdf *fpdf.Fpdf, tr func(string) string, r ports.ReportRow) ([][]string, float64) {
	cells := make([][]string, len(documentColumns))
	height := rowHeight
	for i, c := range documentColumns {
		lines := pdf.SplitText(tr(c.value(r)), c.width-2*pdf.GetCellMargin())
		if len(lines) == 0 {
			lines = []string{""}
		}
		cells[i] = lines
		if h := float64(len(lines))*lineHeight + rowHeight - lineHeight; h > height {
			height = h
		}
	}
	return cells, height
}

func writeRow(pdf *fpdf.Fpdf, cells [][]string, height float64) {
	x, y := pdf.GetXY()
	top := y + (rowHeight-lineHeight)/2
	for i, c := range documentColumns {
		pdf.Rect(x, y, c.width, height, "D")
		for j, line := range cells[i] {
			pdf.SetXY(x, top+float64(j)*lineHeight)
			pdf.CellFormat(c.width, lineHeight, line, "", 0, "L", false, 0, "")
		}
		x += c.width
	}
	pdf.SetXY(pageMargin, y+height)
}

func writeHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(0, 0, 0)
	for _, c := range documentColumns {
		pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}
