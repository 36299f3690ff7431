package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

const (
	msgSessionMissing   = "User ID not found. Please log in again."
	msgIntakeMissing    = "All fields, including user ID, are required."
	msgIntakeSaveFailed = "Failed to save data. Please try again."
	msgIntakeSaved      = "Patient added successfully"
	intakeDateLayout    = "2006-01-02"
	intakeTimeLayout    = "3:04:05 PM"
)

// IntakeService registers patients with the pathology service.
type IntakeService struct {
	api ports.PathologyAPI
	log zerolog.Logger
	now func() time.Time
}

func NewIntakeService(api ports.PathologyAPI, log zerolog.Logger) *IntakeService {
	return &IntakeService{api: api, log: log, now: time.Now}
}

// WithClock replaces the clock used to stamp submissions.
func (s *IntakeService) WithClock(now func() time.Time) *IntakeService {
	s.now = now
	return s
}

// Submit validates the form and sends it with the registration stamps. No
// request is made when the session is missing or the form is invalid.
func (s *IntakeService) Submit(ctx context.Context, sess *domain.Session, form ports.IntakeForm) (*ports.IntakeResult, error) {
	if !sess.Authenticated() {
		return nil, domain.WithMessage(domain.ErrNoSession, msgSessionMissing)
	}

	if form.PathID == "" || form.UHID == "" || form.PatientName == "" || form.Age == "" ||
		!domain.Gender(form.Gender).Valid() {
		return nil, domain.WithMessage(domain.ErrValidation, msgIntakeMissing)
	}
	age, err := domain.ParseAge(form.Age)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := domain.NewPatient{
		PathID:      form.PathID,
		UHID:        form.UHID,
		PatientName: form.PatientName,
		Age:         age,
		Gender:      domain.Gender(form.Gender),
		Barcode:     form.PathID,
		Date:        now.UTC().Format(intakeDateLayout),
		Time:        now.Format(intakeTimeLayout),
		UserID:      sess.UserID,
	}

	msg, err := s.api.AddPatient(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("path_id", p.PathID).Str("employee_id", sess.EmployeeID).Msg("add patient")
		return nil, domain.WithMessage(err, domain.PayloadErrorOr(err, msgIntakeSaveFailed))
	}
	if msg == "" {
		msg = msgIntakeSaved
	}

	s.log.Info().Str("path_id", p.PathID).Str("employee_id", sess.EmployeeID).Msg("patient registered")
	return &ports.IntakeResult{Message: msg, PathID: p.PathID}, nil
}
