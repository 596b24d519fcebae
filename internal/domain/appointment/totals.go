package appointment

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type Totals struct {
	Price    decimal.Decimal
	Duration int
}

// ComputeTotals sums prices exactly and durations as integers.
func ComputeTotals(services []models.Service) Totals {
	t := Totals{Price: decimal.Zero}
	for _, s := range services {
		t.Price = t.Price.Add(s.Price)
		t.Duration += s.Duration
	}
	t.Price = t.Price.Round(2)
	return t
}

func ApplyTotals(ap *models.Appointment, services []models.Service) {
	t := ComputeTotals(services)
	ap.TotalPrice = t.Price
	ap.TotalDuration = t.Duration
}
