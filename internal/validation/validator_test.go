package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/storeapp/store-server/internal/errors"
)

type sampleRequest struct {
	Name   string `json:"name" validate:"required,max=10"`
	Amount int64  `json:"amount" validate:"gte=0"`
	Kind   string `json:"kind,omitempty" validate:"omitempty,oneof=shelf bin"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sampleRequest{Name: "box", Amount: 3, Kind: "bin"}))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(sampleRequest{Amount: -1, Kind: "drawer"})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "amount")
	assert.Contains(t, details, "kind")
	assert.NotContains(t, details, "Name")
	assert.Equal(t, "is required", details["name"])
}

func TestValidate_MaxLength(t *testing.T) {
	v := New()

	err := v.Validate(sampleRequest{Name: "much too long a name"})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	details := appErr.Details.(map[string]string)
	assert.Equal(t, "must not exceed 10 characters", details["name"])
}
