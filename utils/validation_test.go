package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Resource string   `validate:"required"`
	Action   string   `validate:"required,oneof=read write"`
	CPUCores *float64 `validate:"omitempty,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		cpu := 2.0
		err := ValidateStruct(sampleRequest{Resource: "code_repository", Action: "read", CPUCores: &cpu})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateStruct(sampleRequest{Action: "read"})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Resource")
		assert.Equal(t, "Resource is required", fields["Resource"])
	})

	t.Run("oneof violation", func(t *testing.T) {
		err := ValidateStruct(sampleRequest{Resource: "code_repository", Action: "delete"})
		require.Error(t, err)
		fields := GetValidationFields(err)
		assert.Contains(t, fields["Action"], "must be one of")
	})

	t.Run("gt violation on pointer field", func(t *testing.T) {
		zero := 0.0
		err := ValidateStruct(sampleRequest{Resource: "r", Action: "read", CPUCores: &zero})
		require.Error(t, err)
		fields := GetValidationFields(err)
		assert.Contains(t, fields["CPUCores"], "greater than")
	})
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("plain")))
	assert.False(t, IsValidationError(nil))
	assert.Nil(t, GetValidationFields(errors.New("plain")))
}
