package pricing

import (
	"github.com/shopspring/decimal"

	"installment-backoffice/models"
)

// BaseAmount sums quantity * unit price over all lines
func BaseAmount(items []models.OrderItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SuggestedFirstPayment returns the amount pre-filled for the first payment of a
// financed order: one period of the total for fixed plans, the advance for
// flexible plans. Zero means there is nothing to suggest.
func SuggestedFirstPayment(plan *models.InstallmentPlan, total decimal.Decimal) decimal.Decimal {
	if plan == nil {
		return decimal.Zero
	}

	strategy, err := plan.Strategy()
	if err != nil {
		return decimal.Zero
	}

	switch s := strategy.(type) {
	case models.FixedStrategy:
		if plan.Duration <= 0 {
			return decimal.Zero
		}
		return total.Div(decimal.NewFromInt(int64(plan.Duration))).Round(2)
	case models.FlexibleStrategy:
		if s.HasAdvance {
			return s.Advance
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
