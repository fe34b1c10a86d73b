package domain

import "errors"

var (
	// ErrNotFound reports a referenced project, unit, model or task that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange reports a date window whose end lies before its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrValidation reports malformed filter or payload values.
	ErrValidation = errors.New("validation error")
)
