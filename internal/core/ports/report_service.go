package ports

import (
	"context"
)

const (
	FilterModeText = "text"
	FilterModeDate = "date"

	FormatSpreadsheet = "xlsx"
	FormatDocument    = "pdf"
)

// ReportQuery is the filter state of the report screen. Mode selects which
// trigger produced the current view: live text filtering or the date button.
type ReportQuery struct {
	Mode   string `query:"mode"`
	PathID string `query:"pathId"`
	UHID   string `query:"uhid"`
	From   string `query:"from"`
	To     string `query:"to"`
}

// ReportResult is the current view of the report screen.
type ReportResult struct {
	Query ReportQuery
	Total int
	Rows  []ReportRow
}

// ReportExport is a generated download.
type ReportExport struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

type ReportService interface {
	// Load fetches the full patient list once and snapshots it for the session.
	Load(ctx context.Context, sessionID string) (int, error)
	View(ctx context.Context, sessionID string, q ReportQuery) (*ReportResult, error)
	Export(ctx context.Context, sessionID string, q ReportQuery, format string) (*ReportExport, error)
}
