package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

const (
	msgLoginMissingFields = "Please enter both Employee ID and Password."
	msgLoginFailed        = "Login failed. Please try again."
	msgLoginInProgress    = "Login already in progress. Please wait."
	msgInvalidResponse    = "Invalid response from server."

	msgSignupMissingFields = "All fields are required."
	msgSignupMismatch      = "Passwords do not match"
	msgSignupFailed        = "An error occurred while submitting the form."
	msgSignupUnreachable   = "No response from the server. Please check your network connection."
	msgSignupOK            = "Signup successful!"
)

// SessionClaim is the JWT claim that carries the session id.
const SessionClaim = "sid"

// AuthService opens and closes the single server-side session context.
type AuthService struct {
	api      ports.PathologyAPI
	sessions ports.SessionStore
	screens  ports.ScreenStore
	guard    ports.LoginGuard
	secret   []byte
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService builds an AuthService. A zero ttl keeps sessions until logout.
func NewAuthService(api ports.PathologyAPI, sessions ports.SessionStore, screens ports.ScreenStore,
	guard ports.LoginGuard, secret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		screens:  screens,
		guard:    guard,
		secret:   []byte(secret),
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Session, error) {
	if creds.EmployeeID == "" || creds.Password == "" {
		return "", nil, domain.WithMessage(domain.ErrValidation, msgLoginMissingFields)
	}

	sess := &domain.Session{
		ID:         uuid.NewString(),
		EmployeeID: creds.EmployeeID,
		State:      domain.SessionAnonymous,
		CreatedAt:  s.now().UTC(),
	}
	if err := transition(sess, domain.SessionAuthenticating); err != nil {
		return "", nil, err
	}

	ok, err := s.guard.Acquire(ctx, creds.EmployeeID)
	if err != nil {
		return "", nil, fmt.Errorf("acquire login guard: %w", err)
	}
	if !ok {
		return "", nil, domain.WithMessage(domain.ErrLoginInProgress, msgLoginInProgress)
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), creds.EmployeeID); err != nil {
			s.log.Warn().Err(err).Str("employee_id", creds.EmployeeID).Msg("release login guard")
		}
	}()

	userID, err := s.api.Login(ctx, creds)
	if err != nil {
		_ = transition(sess, domain.SessionAnonymous)
		metrics.SessionsTotal.WithLabelValues("login_failed").Inc()
		if errors.Is(err, domain.ErrInvalidResponse) {
			return "", nil, domain.WithMessage(err, msgInvalidResponse)
		}
		return "", nil, domain.WithMessage(err, domain.PayloadMessageOr(err, msgLoginFailed))
	}

	sess.UserID = userID
	if err := transition(sess, domain.SessionAuthenticated); err != nil {
		return "", nil, err
	}
	if err := s.sessions.Save(ctx, sess, s.ttl); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.generateToken(sess)
	if err != nil {
		return "", nil, err
	}

	metrics.SessionsTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("employee_id", sess.EmployeeID).Str("session_id", sess.ID).Msg("session opened")
	return token, sess, nil
}

// Signup registers an account and returns the text to show on success.
func (s *AuthService) Signup(ctx context.Context, reg domain.Registration) (string, error) {
	if reg.FirstName == "" || reg.EmployeeID == "" || reg.Password == "" || reg.PasswordConfirmation == "" {
		return "", domain.WithMessage(domain.ErrValidation, msgSignupMissingFields)
	}
	if reg.Password != reg.PasswordConfirmation {
		return "", domain.WithMessage(domain.ErrPasswordMismatch, msgSignupMismatch)
	}

	if _, err := s.api.Signup(ctx, reg); err != nil {
		var rr domain.RemoteRejection
		if !errors.As(err, &rr) {
			return "", domain.WithMessage(err, msgSignupUnreachable)
		}
		return "", domain.WithMessage(err, domain.PayloadMessageOr(err, msgSignupFailed))
	}
	return msgSignupOK, nil
}

// Logout tears the session down together with every screen snapshot it owns.
// Logging out an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return nil
	case err != nil:
		return err
	}
	if err := transition(sess, domain.SessionAnonymous); err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := s.screens.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear screens: %w", err)
	}

	metrics.SessionsTotal.WithLabelValues("logout").Inc()
	s.log.Info().Str("employee_id", sess.EmployeeID).Str("session_id", sessionID).Msg("session closed")
	return nil
}

func (s *AuthService) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrNoSession
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// ParseToken verifies a session token and returns the session id it carries.
func (s *AuthService) ParseToken(token string) (string, error) {
	return ParseSessionToken(token, s.secret)
}

func (s *AuthService) generateToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		SessionClaim: sess.ID,
		"sub":        sess.UserID,
		"iat":        sess.CreatedAt.Unix(),
	}
	if s.ttl > 0 {
		claims["exp"] = sess.CreatedAt.Add(s.ttl).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// ParseSessionToken verifies an HS256 session token signed with secret.
func ParseSessionToken(token string, secret []byte) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrNoSession
	}
	sid, _ := claims[SessionClaim].(string)
	if sid == "" {
		return "", domain.ErrNoSession
	}
	return sid, nil
}

func transition(sess *domain.Session, next domain.SessionState) error {
	if !sess.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, sess.State, next)
	}
	sess.State = next
	return nil
}
