package service

import (
	"strings"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

// ReportView is the filter state of the report screen over a fixed patient
// list. It never talks to the server: the list is captured once at load.
//
// The two filter axes do not compose. SetText recomputes from the full list
// using the text filters; ApplyDates recomputes from the full list using only
// the date bounds, dropping whatever the text filters had narrowed.
type ReportView struct {
	all  []domain.Patient
	view []domain.Patient

	pathID, uhid string
	from, to     string
}

// NewReportView starts with every patient visible.
func NewReportView(all []domain.Patient) *ReportView {
	return &ReportView{all: all, view: all}
}

// SetText narrows the full list to patients whose pathId and uhid contain
// the given substrings. Empty filters match everything.
func (v *ReportView) SetText(pathID, uhid string) {
	v.pathID, v.uhid = pathID, uhid
	v.view = filterPatients(v.all, func(p domain.Patient) bool {
		return (pathID == "" || strings.Contains(p.PathID, pathID)) &&
			(uhid == "" || strings.Contains(p.UHID, uhid))
	})
}

// ApplyDates narrows the full list to patients registered within [from, to],
// comparing ISO dates as strings. Unless both bounds are set the full list is
// shown.
func (v *ReportView) ApplyDates(from, to string) {
	v.from, v.to = from, to
	if from == "" || to == "" {
		v.view = v.all
		return
	}
	v.view = filterPatients(v.all, func(p domain.Patient) bool {
		return p.Date >= from && p.Date <= to
	})
}

// Patients returns the current view.
func (v *ReportView) Patients() []domain.Patient { return v.view }

// Total is the size of the full list.
func (v *ReportView) Total() int { return len(v.all) }

// Rows numbers the current view 1..N and resolves each owner for display.
func (v *ReportView) Rows() []ports.ReportRow {
	rows := make([]ports.ReportRow, 0, len(v.view))
	for i, p := range v.view {
		rows = append(rows, ports.ReportRow{
			SNo:         i + 1,
			Date:        p.Date,
			Time:        p.Time,
			PathID:      p.PathID,
			UHID:        p.UHID,
			PatientName: p.PatientName,
			Age:         p.Age,
			Gender:      string(p.Gender),
			Barcode:     p.Barcode,
			User:        p.Owner.DisplayName(),
		})
	}
	return rows
}

func filterPatients(in []domain.Patient, keep func(domain.Patient) bool) []domain.Patient {
	out := make([]domain.Patient, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
