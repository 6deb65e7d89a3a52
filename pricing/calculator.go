package pricing

import (
	"github.com/shopspring/decimal"

	"installment-backoffice/models"
)

var one = decimal.NewFromInt(1)

// Breakdown is the payable amount of an order split by component
type Breakdown struct {
	Base      decimal.Decimal `json:"base"`
	Advance   decimal.Decimal `json:"advance"`
	Remaining decimal.Decimal `json:"remaining"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotal returns the total payable amount for base under plan.
// Unfinanced orders (no plan, or a payment method other than installment) pay base.
func ComputeTotal(base decimal.Decimal, paymentMethod string, plan *models.InstallmentPlan) decimal.Decimal {
	return Compute(base, paymentMethod, plan).Total
}

// Compute returns the full breakdown behind ComputeTotal.
// It holds no state: identical inputs always produce identical output.
func Compute(base decimal.Decimal, paymentMethod string, plan *models.InstallmentPlan) Breakdown {
	unfinanced := Breakdown{
		Base:      base,
		Advance:   decimal.Zero,
		Remaining: base,
		Interest:  decimal.Zero,
		Total:     base,
	}

	if plan == nil || paymentMethod != models.PaymentMethodInstallment {
		return unfinanced
	}

	strategy, err := plan.Strategy()
	if err != nil {
		return unfinanced
	}

	switch s := strategy.(type) {
	case models.FixedStrategy:
		return chargeOnFull(base, plan.InterestRate)
	case models.FlexibleStrategy:
		if !s.HasAdvance {
			return chargeOnFull(base, plan.InterestRate)
		}
		remaining := base.Sub(s.Advance)
		interest := remaining.Mul(plan.InterestRate)
		return Breakdown{
			Base:      base,
			Advance:   s.Advance,
			Remaining: remaining,
			Interest:  interest,
			Total:     remaining.Add(interest).Add(s.Advance),
		}
	default:
		return unfinanced
	}
}

// chargeOnFull applies the interest rate to the whole base amount, independent of duration
func chargeOnFull(base, rate decimal.Decimal) Breakdown {
	total := base.Mul(one.Add(rate))
	return Breakdown{
		Base:      base,
		Advance:   decimal.Zero,
		Remaining: base,
		Interest:  total.Sub(base),
		Total:     total,
	}
}
