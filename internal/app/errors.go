package app

import (
	"fmt"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// FieldError reports a rejected input field. It matches domain.ErrValidation
// under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return domain.ErrValidation
}
