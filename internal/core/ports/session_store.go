package ports

import (
	"context"
	"time"

	"github.com/aph/pathlabel/internal/core/domain"
)

// SessionStore persists the server-side session context.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	// Get returns domain.ErrNoSession when the id is unknown.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// ScreenStore keeps per-session screen snapshots so that filtering and
// optimistic updates operate on the list fetched at load time.
type ScreenStore interface {
	// Put stores v (JSON encoded) under the session and screen.
	Put(ctx context.Context, sessionID, screen string, v any) error
	// Load decodes the snapshot into dst. It reports false when none exists.
	Load(ctx context.Context, sessionID, screen string, dst any) (bool, error)
	// Clear removes every snapshot belonging to the session.
	Clear(ctx context.Context, sessionID string) error
}

// LoginGuard marks an employee id as authenticating so duplicate submissions
// are rejected while the first one is in flight.
type LoginGuard interface {
	Acquire(ctx context.Context, employeeID string) (bool, error)
	Release(ctx context.Context, employeeID string) error
}
