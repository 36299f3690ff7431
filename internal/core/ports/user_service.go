package ports

import (
	"context"

	"github.com/aph/pathlabel/internal/core/domain"
)

type UserService interface {
	// Load fetches every account, sorted by employee id, and snapshots it.
	Load(ctx context.Context, sessionID string) ([]domain.User, error)
	// List narrows the snapshot by a case-insensitive search term.
	List(ctx context.Context, sessionID, search string) ([]domain.User, error)
	Rename(ctx context.Context, sessionID, id, firstName string) (string, error)
	ResetPassword(ctx context.Context, sessionID, id, password string) (string, error)
	ToggleStatus(ctx context.Context, sessionID, id string) (string, error)
}
