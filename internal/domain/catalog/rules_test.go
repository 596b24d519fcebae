package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

func TestValidatePrice(t *testing.T) {
	ok := []string{"0.01", "199.99", "10", "10.50", "99999999.99", "5.000"}
	for _, p := range ok {
		assert.NoError(t, ValidatePrice(decimal.RequireFromString(p)), p)
	}

	bad := []string{"0", "-1", "0.001", "19.999", "100000000.00"}
	for _, p := range bad {
		assert.True(t, httperr.IsBusiness(ValidatePrice(decimal.RequireFromString(p)), "invalid_price"), p)
	}
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(1))
	assert.NoError(t, ValidateDuration(480))
	assert.Error(t, ValidateDuration(0))
	assert.Error(t, ValidateDuration(481))
}

func TestValidateTypeCategory(t *testing.T) {
	assert.NoError(t, ValidateTypeCategory(3, 3))

	err := ValidateTypeCategory(3, 4)
	be, ok := httperr.AsBusiness(err)
	assert.True(t, ok)
	assert.Equal(t, httperr.TypeValidation, be.Type)
	assert.Contains(t, be.Fields, "service_type")
}
