// Package validation holds the user-input error taxonomy. Errors from this
// package are always recoverable and safe to show to the user verbatim.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Kind classifies why an input was rejected.
type Kind string

const (
	KindRequired            Kind = "required"
	KindTooShort            Kind = "too_short"
	KindMalformedCredential Kind = "malformed_credential"
	KindTooLarge            Kind = "too_large"
	KindUnsupported         Kind = "unsupported_format"
	KindMissingData         Kind = "missing_data"
	KindInvalid             Kind = "invalid"
)

// Error reports a rejected user input.
type Error struct {
	Field   string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds a validation error.
func New(field string, kind Kind, message string) *Error {
	return &Error{Field: field, Kind: kind, Message: message}
}

// As reports whether err is (or wraps) a validation error and returns it.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Messages maps "<Field>.<tag>" to the message shown when that rule fails.
type Messages map[string]string

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates s against its `validate` tags and converts the first
// failing rule into an *Error using messages.
func Struct(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}

	fe := fieldErrs[0]
	message, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		message = fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}

	return New(fe.Field(), kindForTag(fe.Tag()), message)
}

func kindForTag(tag string) Kind {
	switch tag {
	case "required":
		return KindRequired
	case "min":
		return KindTooShort
	case "startswith":
		return KindMalformedCredential
	default:
		return KindInvalid
	}
}
