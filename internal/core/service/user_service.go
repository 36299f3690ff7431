package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
)

const (
	msgUsersLoadFailed = "Error fetching users"
	msgRenameFailed    = "Failed to update user."
	msgResetOK         = "Password reset successfully!"
	msgResetFailed     = "Failed to reset password."
	msgStatusOKFmt     = "User status updated to %s"
	msgStatusFailed    = "Failed to update user status."
	usersScreen        = "users"
)

type usersSnapshot struct {
	Users []domain.User `json:"users"`
}

// UserService backs the user management screen. Mutations are staged on a
// UserDirectory, sent to the pathology service, then committed to the
// session's snapshot or reverted.
type UserService struct {
	api     ports.PathologyAPI
	screens ports.ScreenStore
	log     zerolog.Logger
}

func NewUserService(api ports.PathologyAPI, screens ports.ScreenStore, log zerolog.Logger) *UserService {
	return &UserService{api: api, screens: screens, log: log}
}

// Load fetches every account and replaces the session's snapshot.
func (s *UserService) Load(ctx context.Context, sessionID string) ([]domain.User, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list users")
		return nil, domain.WithMessage(err, msgUsersLoadFailed)
	}
	d := NewUserDirectory(users)
	if err := s.save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d.Users(), nil
}

// List searches the snapshot, loading it first when the session has none.
func (s *UserService) List(ctx context.Context, sessionID, search string) ([]domain.User, error) {
	d, err := s.directory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return d.Search(search), nil
}

func (s *UserService) Rename(ctx context.Context, sessionID, id, firstName string) (string, error) {
	return s.apply(ctx, sessionID, func(d *UserDirectory) (*Mutation, error) {
		return d.StageRename(id, firstName)
	}, func(m *Mutation) error {
		return s.api.RenameUser(ctx, m.UserID, m.FirstName)
	}, func(*Mutation) string {
		return ""
	}, msgRenameFailed)
}

func (s *UserService) ResetPassword(ctx context.Context, sessionID, id, password string) (string, error) {
	return s.apply(ctx, sessionID, func(d *UserDirectory) (*Mutation, error) {
		return d.StagePasswordReset(id, password)
	}, func(m *Mutation) error {
		return s.api.ResetPassword(ctx, m.UserID, m.Password)
	}, func(*Mutation) string {
		return msgResetOK
	}, msgResetFailed)
}

func (s *UserService) ToggleStatus(ctx context.Context, sessionID, id string) (string, error) {
	return s.apply(ctx, sessionID, func(d *UserDirectory) (*Mutation, error) {
		return d.StageToggle(id)
	}, func(m *Mutation) error {
		return s.api.SetUserStatus(ctx, m.UserID, m.Status)
	}, func(m *Mutation) string {
		return fmt.Sprintf(msgStatusOKFmt, m.Status)
	}, msgStatusFailed)
}

// apply runs one two-phase mutation: stage, call, then commit or revert.
func (s *UserService) apply(ctx context.Context, sessionID string,
	stage func(*UserDirectory) (*Mutation, error),
	call func(*Mutation) error,
	confirm func(*Mutation) string,
	failure string,
) (string, error) {
	d, err := s.directory(ctx, sessionID)
	if err != nil {
		return "", err
	}

	m, err := stage(d)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.WithMessage(err, failure)
		}
		return "", err
	}

	if err := call(m); err != nil {
		d.Revert()
		s.log.Error().Err(err).Str("user_id", m.UserID).Str("mutation", string(m.Kind)).Msg("user mutation rejected")
		return "", domain.WithMessage(err, failure)
	}

	if err := d.Commit(); err != nil {
		return "", err
	}
	if err := s.save(ctx, sessionID, d); err != nil {
		return "", err
	}

	s.log.Info().Str("user_id", m.UserID).Str("mutation", string(m.Kind)).Msg("user mutation applied")
	return confirm(m), nil
}

func (s *UserService) directory(ctx context.Context, sessionID string) (*UserDirectory, error) {
	var snap usersSnapshot
	found, err := s.screens.Load(ctx, sessionID, usersScreen, &snap)
	if err != nil {
		return nil, fmt.Errorf("load users snapshot: %w", err)
	}
	if !found {
		users, err := s.Load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return NewUserDirectory(users), nil
	}
	return NewUserDirectory(snap.Users), nil
}

func (s *UserService) save(ctx context.Context, sessionID string, d *UserDirectory) error {
	if err := s.screens.Put(ctx, sessionID, usersScreen, usersSnapshot{Users: d.Users()}); err != nil {
		return fmt.Errorf("store users snapshot: %w", err)
	}
	return nil
}
