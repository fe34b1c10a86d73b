package app

import (
	"errors"
	"testing"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateValue(t *testing.T) {
	v, err := ParseDateValue("planned")
	require.NoError(t, err)
	assert.True(t, v.IsCopyFromPlanned())

	v, err = ParseDateValue(" PLANNED ")
	require.NoError(t, err)
	assert.True(t, v.IsCopyFromPlanned())

	v, err = ParseDateValue("2024-03-04")
	require.NoError(t, err)
	assert.False(t, v.IsCopyFromPlanned())
	assert.Equal(t, "2024-03-04", v.String())

	_, err = ParseDateValue("__COPY__start_soll")
	assert.ErrorIs(t, err, domain.ErrValidation, "sentinel strings are not dates")
}

func TestFieldError_IsValidation(t *testing.T) {
	var err error = &FieldError{Field: "label", Message: "required"}
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "label: required", err.Error())
}
