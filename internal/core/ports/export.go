package ports

// ReportRow is one exported line: a patient with its serial number and
// resolved owner name.
type ReportRow struct {
	SNo         int
	Date        string
	Time        string
	PathID      string
	UHID        string
	PatientName string
	Age         int
	Gender      string
	Barcode     string
	User        string
}

// ReportExporter renders report rows into downloadable documents.
type ReportExporter interface {
	Spreadsheet(rows []ReportRow) ([]byte, error)
	Document(rows []ReportRow) ([]byte, error)
}
