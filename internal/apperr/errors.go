package apperr

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidDocument      = errors.New("invalid document")
)
