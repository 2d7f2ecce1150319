package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidID      = errors.New("invalid id format")
	ErrDataNotFound   = errors.New("data not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrSchemaRejected = errors.New("document failed schema validation")
)

var (
	ErrUnauthorized    = errors.New("authentication required")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidState    = errors.New("invalid oauth state")
	ErrProviderDenied  = errors.New("provider denied authorization")
)

// ValidationError reports a request that failed field presence or format checks.
// Fields carries the offending field names (dotted for nested fields).
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// NewMissingFieldsError builds the error returned when required fields are absent.
func NewMissingFieldsError(fields []string) *ValidationError {
	return &ValidationError{Message: "Missing required fields", Fields: fields}
}

// SchemaError is a write the store rejected against its document schema.
// Fields names the properties the store reported, when it reported any.
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	if len(e.Fields) == 0 {
		return ErrSchemaRejected.Error()
	}
	return ErrSchemaRejected.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *SchemaError) Unwrap() error { return ErrSchemaRejected }
