package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_NotFound(t *testing.T) {
	id := uuid.New()

	tr := Translate(fmt.Errorf("read: %w", CustomerNotFound(id)), false)
	assert.Equal(t, KindNotFound, tr.Kind)
	assert.Equal(t, "Customer not found", tr.Body.Summary)
	assert.Equal(t, "Could not find customer with id "+id.String(), tr.Body.Description)
	assert.Nil(t, tr.Body.AdditionalInfo)

	tr = Translate(DeviceNotFound(id), false)
	assert.Equal(t, KindNotFound, tr.Kind)
	assert.Equal(t, "Device not found", tr.Body.Summary)
	assert.Contains(t, tr.Body.Description, id.String())
}

func TestTranslate_DeviceLimitReached(t *testing.T) {
	customerID := uuid.New()

	tr := Translate(&DeviceLimitReachedError{Limit: 3, CustomerID: customerID}, false)
	assert.Equal(t, KindDeviceLimitReached, tr.Kind)
	assert.Equal(t, "Device limit reached", tr.Body.Summary)
	assert.Contains(t, tr.Body.Description, customerID.String())
	assert.Equal(t, map[string]any{"limit": 3, "customerId": customerID.String()}, tr.Body.AdditionalInfo)
}

func TestTranslate_InvalidArgument(t *testing.T) {
	tr := Translate(InvalidArgument("id", "is blank"), false)
	assert.Equal(t, KindInvalidArgument, tr.Kind)
	assert.Equal(t, "Invalid argument", tr.Body.Summary)
	assert.Equal(t, "id is blank", tr.Body.Description)
	assert.Equal(t, map[string]string{"id": "is blank"}, tr.Body.AdditionalInfo)
}

func TestTranslate_Validation(t *testing.T) {
	verr := NewValidationError()
	verr.Add("address", "must not be blank")
	verr.Add("fiscalCode", "must not be blank")
	verr.Add("fiscalCode", "must match")

	tr := Translate(verr, false)
	assert.Equal(t, KindValidation, tr.Kind)
	assert.Equal(t, "Validation failed", tr.Body.Summary)
	assert.Empty(t, tr.Body.Description)
	assert.Equal(t, map[string]string{
		"address":    "must not be blank",
		"fiscalCode": "must not be blank, must match",
	}, tr.Body.AdditionalInfo)
}

func TestTranslate_Unhandled(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := fmt.Errorf("failed to save customer: %w", cause)

	tr := Translate(err, false)
	assert.Equal(t, KindUnhandled, tr.Kind)
	assert.Equal(t, "Internal error", tr.Body.Summary)
	assert.Empty(t, tr.Body.Description)
	assert.Nil(t, tr.Body.AdditionalInfo)

	tr = Translate(err, true)
	assert.Equal(t, KindUnhandled, tr.Kind)
	assert.Equal(t, err.Error(), tr.Body.Description)
	chain, ok := tr.Body.AdditionalInfo.([]string)
	require.True(t, ok)
	require.Len(t, chain, 2)
	assert.Contains(t, chain[1], "disk I/O error")
}

func TestValidationError_ErrOrNil(t *testing.T) {
	verr := NewValidationError()
	assert.True(t, verr.Empty())
	assert.NoError(t, verr.ErrOrNil())

	verr.Add("color", "bad")
	assert.Error(t, verr.ErrOrNil())
	assert.Equal(t, "validation failed: color: bad", verr.Error())
}
