package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

const (
	msgReprintMissing  = "Please enter a Path ID."
	msgReprintNotFound = "No patient found with this Path ID."
	msgReprintFailed   = "Failed to fetch patient details. Please try again."
)

// ReprintService looks registered patients up by path id. Every lookup goes
// to the pathology service so the label reflects the current record.
type ReprintService struct {
	api ports.PathologyAPI
	log zerolog.Logger
}

func NewReprintService(api ports.PathologyAPI, log zerolog.Logger) *ReprintService {
	return &ReprintService{api: api, log: log}
}

func (s *ReprintService) Lookup(ctx context.Context, pathID string) (*domain.Patient, error) {
	if pathID == "" {
		return nil, domain.WithMessage(domain.ErrValidation, msgReprintMissing)
	}

	p, err := s.api.GetPatient(ctx, pathID)
	switch {
	case errors.Is(err, domain.ErrPatientNotFound):
		return nil, domain.WithMessage(err, msgReprintNotFound)
	case err != nil:
		s.log.Error().Err(err).Str("path_id", pathID).Msg("get patient")
		return nil, domain.WithMessage(err, msgReprintFailed)
	}
	return p, nil
}
