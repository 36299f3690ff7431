package domain

import "errors"

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrLoginInProgress    = errors.New("login already in progress")
	ErrNothingToApply     = errors.New("nothing to apply")
	ErrInvalidResponse    = errors.New("invalid response from server")
)

// UserMessage attaches the text shown to the operator to an underlying error.
type UserMessage struct {
	Text string
	Err  error
}

func (m *UserMessage) Error() string { return m.Text }

func (m *UserMessage) Unwrap() error { return m.Err }

// WithMessage wraps err so that MessageOf returns text.
func WithMessage(err error, text string) error {
	return &UserMessage{Text: text, Err: err}
}

// MessageOf returns the operator-facing text carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var um *UserMessage
	if errors.As(err, &um) && um.Text != "" {
		return um.Text
	}
	return fallback
}

// RemoteRejection is implemented by errors that carry the "error" and
// "message" fields of a pathology service error payload.
type RemoteRejection interface {
	error
	PayloadError() string
	PayloadMessage() string
}

// PayloadErrorOr returns the payload "error" field carried by err, or fallback.
func PayloadErrorOr(err error, fallback string) string {
	var rr RemoteRejection
	if errors.As(err, &rr) && rr.PayloadError() != "" {
		return rr.PayloadError()
	}
	return fallback
}

// PayloadMessageOr returns the payload "message" field carried by err, or fallback.
func PayloadMessageOr(err error, fallback string) string {
	var rr RemoteRejection
	if errors.As(err, &rr) && rr.PayloadMessage() != "" {
		return rr.PayloadMessage()
	}
	return fallback
}
