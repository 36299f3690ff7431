package domain

import "time"

// SessionState is the lifecycle state of a browser session.
type SessionState string

const (
	SessionAnonymous      SessionState = "anonymous"
	SessionAuthenticating SessionState = "authenticating"
	SessionAuthenticated  SessionState = "authenticated"
)

var validSessionTransitions = map[SessionState][]SessionState{
	SessionAnonymous:      {SessionAuthenticating},
	SessionAuthenticating: {SessionAuthenticated, SessionAnonymous},
	SessionAuthenticated:  {SessionAnonymous},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range validSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session is the single server-side session context injected into screens.
type Session struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	EmployeeID string       `json:"employee_id"`
	State      SessionState `json:"state"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Authenticated reports whether the session can be used for protected screens.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == SessionAuthenticated && s.UserID != ""
}
