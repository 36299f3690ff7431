package ports

import (
	"context"

	"github.com/aph/pathlabel/internal/core/domain"
)

type AuthService interface {
	// Login authenticates against the pathology service, opens a session and
	// returns the signed token that identifies it.
	Login(ctx context.Context, creds domain.Credentials) (string, *domain.Session, error)
	Signup(ctx context.Context, reg domain.Registration) (string, error)
	Logout(ctx context.Context, sessionID string) error
	// Session returns the authenticated session or domain.ErrNoSession.
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	// ParseToken verifies a token issued by Login and returns its session id.
	ParseToken(token string) (string, error)
}
