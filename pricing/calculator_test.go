package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"installment-backoffice/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedPlan(rate string, duration int) *models.InstallmentPlan {
	return &models.InstallmentPlan{
		ID:           "plan-fixed",
		Name:         "Fixed",
		Type:         models.PlanTypeFixed,
		Duration:     duration,
		InterestRate: d(rate),
	}
}

func flexiblePlan(rate string, duration int, advance string) *models.InstallmentPlan {
	p := &models.InstallmentPlan{
		ID:           "plan-flex",
		Name:         "Flexible",
		Type:         models.PlanTypeFlexible,
		Duration:     duration,
		InterestRate: d(rate),
	}
	if advance != "" {
		p.AdvancePaymentAmount = decimal.NewNullDecimal(d(advance))
	}
	return p
}

// genAmount draws a non-negative amount with up to two decimals
func genAmount(t *rapid.T, label string) decimal.Decimal {
	cents := rapid.Int64Range(0, 100_000_000).Draw(t, label)
	return decimal.New(cents, -2)
}

func genRate(t *rapid.T) decimal.Decimal {
	basisPoints := rapid.Int64Range(0, 10_000).Draw(t, "rate")
	return decimal.New(basisPoints, -4)
}

func TestComputeTotal_FixedScenario(t *testing.T) {
	plan := fixedPlan("0.10", 6)

	total := ComputeTotal(d("1000"), models.PaymentMethodInstallment, plan)
	assert.True(t, total.Equal(d("1100")), "total = %s", total)

	first := SuggestedFirstPayment(plan, total)
	assert.Equal(t, "183.33", first.StringFixed(2))
}

func TestComputeTotal_FlexibleScenario(t *testing.T) {
	plan := flexiblePlan("0.05", 6, "500")

	b := Compute(d("2000"), models.PaymentMethodInstallment, plan)
	assert.True(t, b.Remaining.Equal(d("1500")), "remaining = %s", b.Remaining)
	assert.True(t, b.Interest.Equal(d("75")), "interest = %s", b.Interest)
	assert.True(t, b.Total.Equal(d("2075")), "total = %s", b.Total)
	assert.True(t, b.Advance.Equal(d("500")))

	assert.True(t, SuggestedFirstPayment(plan, b.Total).Equal(d("500")))
}

func TestComputeTotal_FlexibleWithoutAdvanceChargesFullBase(t *testing.T) {
	plan := flexiblePlan("0.20", 4, "")

	total := ComputeTotal(d("500"), models.PaymentMethodInstallment, plan)
	assert.True(t, total.Equal(d("600")), "total = %s", total)
	assert.True(t, SuggestedFirstPayment(plan, total).IsZero())
}

func TestComputeTotal_SwitchingAwayFromInstallmentRevertsToBase(t *testing.T) {
	plan := fixedPlan("0.25", 12)
	base := d("840.50")

	financed := ComputeTotal(base, models.PaymentMethodInstallment, plan)
	require.True(t, financed.GreaterThan(base))

	for _, method := range []string{models.PaymentMethodCash, models.PaymentMethodCreditCard, models.PaymentMethodBankTransfer, ""} {
		assert.True(t, ComputeTotal(base, method, plan).Equal(base), "method %q", method)
	}
}

func TestComputeTotal_NoPlan(t *testing.T) {
	assert.True(t, ComputeTotal(d("99.99"), models.PaymentMethodInstallment, nil).Equal(d("99.99")))
}

func TestComputeTotal_ZeroInterest(t *testing.T) {
	assert.True(t, ComputeTotal(d("1234.56"), models.PaymentMethodInstallment, fixedPlan("0", 3)).Equal(d("1234.56")))
	assert.True(t, ComputeTotal(d("1234.56"), models.PaymentMethodInstallment, flexiblePlan("0", 3, "200")).Equal(d("1234.56")))
}

func TestComputeTotal_UnknownPlanTypeIsUnfinanced(t *testing.T) {
	plan := &models.InstallmentPlan{Type: "balloon", Duration: 3, InterestRate: d("0.5")}
	assert.True(t, ComputeTotal(d("100"), models.PaymentMethodInstallment, plan).Equal(d("100")))
}

func TestComputeTotal_FixedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := genAmount(t, "base")
		rate := genRate(t)
		plan := &models.InstallmentPlan{Type: models.PlanTypeFixed, Duration: 6, InterestRate: rate}

		got := ComputeTotal(base, models.PaymentMethodInstallment, plan)
		want := base.Mul(decimal.NewFromInt(1).Add(rate))
		if !got.Equal(want) {
			t.Fatalf("fixed total %s, want %s", got, want)
		}
	})
}

func TestComputeTotal_FlexibleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		baseCents := rapid.Int64Range(1, 100_000_000).Draw(t, "base")
		advanceCents := rapid.Int64Range(1, baseCents).Draw(t, "advance")
		base := decimal.New(baseCents, -2)
		advance := decimal.New(advanceCents, -2)
		rate := genRate(t)
		plan := &models.InstallmentPlan{
			Type:                 models.PlanTypeFlexible,
			Duration:             6,
			InterestRate:         rate,
			AdvancePaymentAmount: decimal.NewNullDecimal(advance),
		}

		got := ComputeTotal(base, models.PaymentMethodInstallment, plan)
		want := base.Sub(advance).Mul(decimal.NewFromInt(1).Add(rate)).Add(advance)
		if !got.Equal(want) {
			t.Fatalf("flexible total %s, want %s", got, want)
		}
	})
}

func TestComputeTotal_IsPure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := genAmount(t, "base")
		original := fixedPlan("0.10", 6)
		other := flexiblePlan("0.30", 3, "10")

		first := ComputeTotal(base, models.PaymentMethodInstallment, original)
		_ = ComputeTotal(base, models.PaymentMethodInstallment, other)
		_ = ComputeTotal(base, models.PaymentMethodCash, original)
		again := ComputeTotal(base, models.PaymentMethodInstallment, original)

		if !first.Equal(again) {
			t.Fatalf("recomputation drifted: %s then %s", first, again)
		}
	})
}

func TestBaseAmount(t *testing.T) {
	items := []models.OrderItemInput{
		{ProductID: "p1", Quantity: 2, UnitPrice: d("250")},
		{ProductID: "p2", Quantity: 1, UnitPrice: d("500")},
	}
	assert.True(t, BaseAmount(items).Equal(d("1000")))
	assert.True(t, BaseAmount(nil).IsZero())
}
