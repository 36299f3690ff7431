package ports

import (
	"context"

	"github.com/aph/pathlabel/internal/core/domain"
)

// PathologyAPI is the remote REST service that owns patients, users and credentials.
type PathologyAPI interface {
	// Login returns the userId of the authenticated account.
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	// Signup returns the server's confirmation message.
	Signup(ctx context.Context, reg domain.Registration) (string, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	RenameUser(ctx context.Context, id, firstName string) error
	ResetPassword(ctx context.Context, id, password string) error
	SetUserStatus(ctx context.Context, id string, status domain.UserStatus) error

	// AddPatient returns the server's confirmation message.
	AddPatient(ctx context.Context, p domain.NewPatient) (string, error)
	// GetPatient returns domain.ErrPatientNotFound when the server has no record.
	GetPatient(ctx context.Context, pathID string) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
}
