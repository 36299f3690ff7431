package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/label"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Besides the built-in tags it understands "age", which accepts what
// domain.ParseAge accepts, and "barcode", which accepts what label.Encode can
// turn into a Code128 symbol.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("age", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAge(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
		_, err := label.Encode(fl.Field().String())
		return err == nil
	})
	return &echoValidator{v: v}
}

const msgUnprintablePathID = "Path ID contains characters that cannot be printed on a label."

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// ValidationError lists every failed rule of a form. It matches
// domain.ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

// Only reports whether every failure was caused by tag.
func (e *ValidationError) Only(tag string) bool {
	if len(e.Fields) == 0 {
		return false
	}
	for _, f := range e.Fields {
		if f.Tag != tag {
			return false
		}
	}
	return true
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &ValidationError{Fields: make([]FieldError, 0, len(ve))}
			for _, fe := range ve {
				out.Fields = append(out.Fields, FieldError{
					Field:   fe.Field(),
					Tag:     fe.Tag(),
					Message: fieldError(fe),
				})
			}
			return out
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "age":
		return fmt.Sprintf("Age must be between %d and %d.", domain.MinAge, domain.MaxAge)
	case "barcode":
		return msgUnprintablePathID
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
