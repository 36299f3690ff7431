package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

const (
	msgReportLoadFailed = "Failed to load patient data"
	reportScreen        = "report"
	reportFilename      = "Patient_Report"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ErrUnknownFormat is returned for an export format other than xlsx or pdf.
var ErrUnknownFormat = fmt.Errorf("%w: unknown export format", domain.ErrValidation)

type reportSnapshot struct {
	Patients []domain.Patient `json:"patients"`
}

// ReportService serves the report screen from a per-session snapshot of the
// patient list. The list is fetched from the pathology service once, at load.
type ReportService struct {
	api      ports.PathologyAPI
	screens  ports.ScreenStore
	exporter ports.ReportExporter
	log      zerolog.Logger
}

func NewReportService(api ports.PathologyAPI, screens ports.ScreenStore, exporter ports.ReportExporter, log zerolog.Logger) *ReportService {
	return &ReportService{api: api, screens: screens, exporter: exporter, log: log}
}

func (s *ReportService) Load(ctx context.Context, sessionID string) (int, error) {
	patients, err := s.fetch(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(patients), nil
}

// View applies the query to the snapshot, loading it first when the session
// has none yet.
func (s *ReportService) View(ctx context.Context, sessionID string, q ports.ReportQuery) (*ports.ReportResult, error) {
	v, err := s.view(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	return &ports.ReportResult{Query: q, Total: v.Total(), Rows: v.Rows()}, nil
}

// Export renders the rows of the current view.
func (s *ReportService) Export(ctx context.Context, sessionID string, q ports.ReportQuery, format string) (*ports.ReportExport, error) {
	v, err := s.view(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	rows := v.Rows()

	out := &ports.ReportExport{Rows: len(rows)}
	switch format {
	case ports.FormatSpreadsheet:
		out.Body, err = s.exporter.Spreadsheet(rows)
		out.ContentType = contentTypeXLSX
	case ports.FormatDocument:
		out.Body, err = s.exporter.Document(rows)
		out.ContentType = contentTypePDF
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	out.Filename = reportFilename + "." + format

	metrics.ReportExportsTotal.WithLabelValues(format).Inc()
	s.log.Info().Str("format", format).Int("rows", out.Rows).Msg("report exported")
	return out, nil
}

func (s *ReportService) view(ctx context.Context, sessionID string, q ports.ReportQuery) (*ReportView, error) {
	var snap reportSnapshot
	found, err := s.screens.Load(ctx, sessionID, reportScreen, &snap)
	if err != nil {
		return nil, fmt.Errorf("load report snapshot: %w", err)
	}
	if !found {
		if snap.Patients, err = s.fetch(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	v := NewReportView(snap.Patients)
	if q.Mode == ports.FilterModeDate {
		v.ApplyDates(q.From, q.To)
	} else {
		v.SetText(q.PathID, q.UHID)
	}
	return v, nil
}

func (s *ReportService) fetch(ctx context.Context, sessionID string) ([]domain.Patient, error) {
	patients, err := s.api.ListPatients(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list patients")
		return nil, domain.WithMessage(err, msgReportLoadFailed)
	}
	if err := s.screens.Put(ctx, sessionID, reportScreen, reportSnapshot{Patients: patients}); err != nil {
		return nil, fmt.Errorf("store report snapshot: %w", err)
	}
	return patients, nil
}
