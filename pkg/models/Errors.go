package models

import (
	"errors"
	"fmt"
)

var (
	ErrAlbumNotFound   = fmt.Errorf("album not found")
	ErrContactNotFound = fmt.Errorf("contact submission not found")
	ErrValidation      = fmt.Errorf("validation failed")
)

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
