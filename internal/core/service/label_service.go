package service

import (
	"time"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/label"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

// LabelService renders labels for the intake and reprint flows through one
// shared Renderer and journals every render.
type LabelService struct {
	renderer *label.Renderer
	journal  ports.JournalService
	now      func() time.Time
}

func NewLabelService(renderer *label.Renderer, journal ports.JournalService) *LabelService {
	return &LabelService{renderer: renderer, journal: journal, now: time.Now}
}

func (s *LabelService) Sheet(flow string, sess *domain.Session, value string) (*ports.LabelSheet, error) {
	preview, err := s.renderer.Render(value)
	if err != nil {
		return nil, err
	}
	frag, err := s.renderer.Print(value)
	if err != nil {
		return nil, err
	}
	s.record(flow, ports.ActionPreview, sess, value)
	return &ports.LabelSheet{Preview: preview, Print: frag}, nil
}

func (s *LabelService) Printed(flow string, sess *domain.Session, value string) error {
	if value == "" {
		return label.ErrEmptyValue
	}
	s.record(flow, ports.ActionPrint, sess, value)
	return nil
}

// SVG renders the standalone barcode for value.
func (s *LabelService) SVG(value string) ([]byte, error) {
	return s.renderer.SVG(value)
}

func (s *LabelService) record(flow, action string, sess *domain.Session, value string) {
	metrics.LabelsRenderedTotal.WithLabelValues(flow, action).Inc()
	ev := ports.LabelEvent{PathID: value, Flow: flow, Action: action, At: s.now().UTC()}
	if sess != nil {
		ev.UserID = sess.UserID
	}
	s.journal.Record(ev)
}
