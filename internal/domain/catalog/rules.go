package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 480
)

// numeric(10,2)
var maxPrice = decimal.RequireFromString("99999999.99")

func ValidatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return httperr.FieldError("price", "invalid_price", "Price must be greater than zero")
	}
	if p.Exponent() < -2 && !p.Equal(p.Round(2)) {
		return httperr.FieldError("price", "invalid_price", "Price must have at most 2 decimal places")
	}
	if p.GreaterThan(maxPrice) {
		return httperr.FieldError("price", "invalid_price", "Price must not exceed 99999999.99")
	}
	return nil
}

func ValidateDuration(minutes int) error {
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return httperr.FieldError(
			"duration",
			"invalid_duration",
			fmt.Sprintf("Duration must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes),
		)
	}
	return nil
}

// ValidateTypeCategory requires a service type to sit under the service's
// own category.
func ValidateTypeCategory(serviceCategoryID, typeCategoryID uint) error {
	if serviceCategoryID != typeCategoryID {
		return httperr.FieldError(
			"service_type",
			"type_category_mismatch",
			"Service type must belong to the selected category",
		)
	}
	return nil
}
