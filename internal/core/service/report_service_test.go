package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

func newReportFixture() (*stubAPI, *stubExporter, *ReportService) {
	api := &stubAPI{listPatientsFn: func() ([]domain.Patient, error) { return samplePatients(), nil }}
	exp := &stubExporter{}
	return api, exp, NewReportService(api, newMemScreens(), exp, zerolog.Nop())
}

func TestReportService_FiltersRunOnSnapshot(t *testing.T) {
	api, _, svc := newReportFixture()
	ctx := context.Background()

	n, err := svc.Load(ctx, "sid")
	if err != nil || n != 2 {
		t.Fatalf("load: %d, %v", n, err)
	}

	res, err := svc.View(ctx, "sid", ports.ReportQuery{Mode: ports.FilterModeText, PathID: "A1"})
	if err != nil || len(res.Rows) != 1 || res.Total != 2 {
		t.Fatalf("unexpected text view: %+v, %v", res, err)
	}

	res, err = svc.View(ctx, "sid", ports.ReportQuery{Mode: ports.FilterModeDate, PathID: "A1", From: "2025-02-01", To: "2025-02-01"})
	if err != nil || len(res.Rows) != 1 || res.Rows[0].PathID != "A2" {
		t.Fatalf("date view must ignore the text filter: %+v, %v", res, err)
	}

	if api.calls != 1 {
		t.Fatalf("filtering must not refetch, got %d calls", api.calls)
	}
}

func TestReportService_ViewLoadsOnFirstUse(t *testing.T) {
	api, _, svc := newReportFixture()

	res, err := svc.View(context.Background(), "sid", ports.ReportQuery{})
	if err != nil || len(res.Rows) != 2 {
		t.Fatalf("unexpected view: %+v, %v", res, err)
	}
	if api.calls != 1 {
		t.Fatalf("expected one fetch, got %d", api.calls)
	}
}

func TestReportService_LoadFailure(t *testing.T) {
	api := &stubAPI{listPatientsFn: func() ([]domain.Patient, error) { return nil, errors.New("down") }}
	svc := NewReportService(api, newMemScreens(), &stubExporter{}, zerolog.Nop())

	_, err := svc.Load(context.Background(), "sid")
	if domain.MessageOf(err, "") != "Failed to load patient data" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReportService_Export(t *testing.T) {
	_, exp, svc := newReportFixture()
	ctx := context.Background()

	out, err := svc.Export(ctx, "sid", ports.ReportQuery{PathID: "A2"}, ports.FormatSpreadsheet)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Filename != "Patient_Report.xlsx" || out.Rows != 1 || len(exp.lastRows) != 1 {
		t.Fatalf("unexpected export: %+v", out)
	}
	if exp.lastRows[0].SNo != 1 || exp.lastRows[0].User != "E2" {
		t.Fatalf("unexpected row: %+v", exp.lastRows[0])
	}

	out, err = svc.Export(ctx, "sid", ports.ReportQuery{}, ports.FormatDocument)
	if err != nil || out.Filename != "Patient_Report.pdf" || out.ContentType != "application/pdf" || out.Rows != 2 {
		t.Fatalf("unexpected pdf export: %+v, %v", out, err)
	}

	if _, err := svc.Export(ctx, "sid", ports.ReportQuery{}, "csv"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestReportService_SnapshotsArePerSession(t *testing.T) {
	api, _, svc := newReportFixture()
	ctx := context.Background()

	if _, err := svc.Load(ctx, "sid-a"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := svc.View(ctx, "sid-b", ports.ReportQuery{}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if api.calls != 2 {
		t.Fatalf("each session loads its own list, got %d calls", api.calls)
	}
}
