package ports

import (
	"context"

	"github.com/aph/pathlabel/internal/core/domain"
)

// IntakeForm is the raw patient intake submission. Age stays a string until
// validated so that "abc" and "" can be rejected with the right message.
type IntakeForm struct {
	PathID      string `form:"pathId"      json:"pathId"      validate:"required,barcode"`
	UHID        string `form:"uhid"        json:"uhid"        validate:"required"`
	PatientName string `form:"patientName" json:"patientName" validate:"required"`
	Age         string `form:"age"         json:"age"         validate:"required,age"`
	Gender      string `form:"gender"      json:"gender"      validate:"required,oneof=male female other"`
}

// IntakeResult is returned after the remote service accepted a patient.
type IntakeResult struct {
	Message string
	PathID  string
}

type IntakeService interface {
	Submit(ctx context.Context, sess *domain.Session, form IntakeForm) (*IntakeResult, error)
}

type ReprintService interface {
	Lookup(ctx context.Context, pathID string) (*domain.Patient, error)
}
