package model

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
)

// FieldError names the request or document field that failed validation.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// MissingField reports an absent required field.
func MissingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingRequiredField}
}

// InvalidField reports a present but unacceptable field value.
func InvalidField(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidField}
}
