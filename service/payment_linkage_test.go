package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"installment-backoffice/models"
)

func newTestResolver(store *fakeStore) *LinkageResolver {
	return NewLinkageResolver(fakeInstallments{store}, zap.NewNop(), func() time.Time { return testNow })
}

func TestResolveFixedPlanLinksFirstInstallment(t *testing.T) {
	store := newFakeStore()
	store.installments["order-1"] = []models.Installment{
		{ID: "inst-2", OrderID: "order-1", Label: "2", Amount: decimal.RequireFromString("183.33")},
		{ID: "inst-1", OrderID: "order-1", Label: models.FirstInstallmentLabel, Amount: decimal.RequireFromString("183.35")},
	}
	plan := &models.InstallmentPlan{ID: "plan-fixed", Type: models.PlanTypeFixed, Duration: 6, InterestRate: decimal.RequireFromString("0.1")}
	order := &models.Order{ID: "order-1", TotalAmount: decimal.NewFromInt(1100)}

	intent, err := newTestResolver(store).ResolveFirstPayment(context.Background(), plan, order,
		decimal.NewFromInt(1000), order.TotalAmount,
		models.FirstPaymentInput{PaymentMethod: models.PaymentMethodCash, PaymentDate: "2026-10-18"})
	require.NoError(t, err)

	assert.Equal(t, IntentLinkedInstallment, intent.Kind)
	assert.Equal(t, "inst-1", intent.InstallmentID)
	require.NotNil(t, intent.Payment.InstallmentID)
	assert.Equal(t, "inst-1", *intent.Payment.InstallmentID)
	assert.Equal(t, "183.35", intent.Payment.Amount.StringFixed(2))
	assert.Equal(t, "2026-10-18", intent.Payment.PaymentDate.Format(models.DateLayout))
	assert.Nil(t, intent.Warning)
	// the resolver never writes
	assert.Equal(t, []string{"listInstallments"}, store.log.list())
}

func TestResolveFixedPlanWithoutFirstInstallmentFallsBack(t *testing.T) {
	store := newFakeStore()
	plan := &models.InstallmentPlan{ID: "plan-fixed", Type: models.PlanTypeFixed, Duration: 6, InterestRate: decimal.RequireFromString("0.1")}
	order := &models.Order{ID: "order-1", TotalAmount: decimal.NewFromInt(1100)}

	intent, err := newTestResolver(store).ResolveFirstPayment(context.Background(), plan, order,
		decimal.NewFromInt(1000), order.TotalAmount, models.FirstPaymentInput{PaymentMethod: models.PaymentMethodCash})
	require.NoError(t, err)

	assert.Equal(t, IntentUnlinked, intent.Kind)
	assert.Nil(t, intent.Payment.InstallmentID)
	assert.Equal(t, "183.33", intent.Payment.Amount.StringFixed(2))
	require.NotNil(t, intent.Warning)
	assert.Equal(t, "order-1", intent.Warning.OrderID)
}

func TestResolveFlexiblePlanSynthesizesAdvance(t *testing.T) {
	store := newFakeStore()
	plan := &models.InstallmentPlan{
		ID: "plan-flex", Type: models.PlanTypeFlexible, Duration: 3,
		InterestRate:         decimal.RequireFromString("0.05"),
		AdvancePaymentAmount: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}
	order := &models.Order{ID: "order-1", TotalAmount: decimal.NewFromInt(2075)}

	intent, err := newTestResolver(store).ResolveFirstPayment(context.Background(), plan, order,
		decimal.NewFromInt(2000), order.TotalAmount, models.FirstPaymentInput{PaymentMethod: models.PaymentMethodCheck})
	require.NoError(t, err)

	assert.Equal(t, IntentAdvanceInstallment, intent.Kind)
	require.NotNil(t, intent.Advance)
	assert.Equal(t, models.AdvancePaymentLabel, intent.Advance.Label)
	assert.Equal(t, models.InstallmentStatusPaid, intent.Advance.Status)
	assert.Equal(t, "plan-flex", intent.Advance.PlanID)
	assert.True(t, intent.Advance.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "2026-10-19", intent.Advance.DueDate.Format(models.DateLayout))
	assert.True(t, intent.Payment.Amount.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, intent.Payment.InstallmentID)
	// the schedule is not consulted for the advance
	assert.Empty(t, store.log.list())
}

func TestResolveFlexiblePlanWithoutAdvanceNeedsAmount(t *testing.T) {
	store := newFakeStore()
	plan := &models.InstallmentPlan{ID: "plan-open", Type: models.PlanTypeFlexible, Duration: 3, InterestRate: decimal.Zero}
	order := &models.Order{ID: "order-1", TotalAmount: decimal.NewFromInt(900)}

	_, err := newTestResolver(store).ResolveFirstPayment(context.Background(), plan, order,
		decimal.NewFromInt(900), order.TotalAmount, models.FirstPaymentInput{PaymentMethod: models.PaymentMethodCash})
	assert.ErrorIs(t, err, ErrValidation)

	intent, err := newTestResolver(store).ResolveFirstPayment(context.Background(), plan, order,
		decimal.NewFromInt(900), order.TotalAmount,
		models.FirstPaymentInput{Amount: decimal.NewFromInt(100), PaymentMethod: models.PaymentMethodCash})
	require.NoError(t, err)
	assert.Equal(t, IntentAdvanceInstallment, intent.Kind)
	assert.True(t, intent.Advance.Amount.Equal(decimal.NewFromInt(100)))
}

func TestResolveUnknownPlanType(t *testing.T) {
	plan := &models.InstallmentPlan{ID: "plan-x", Type: "balloon", Duration: 3}
	order := &models.Order{ID: "order-1"}

	_, err := newTestResolver(newFakeStore()).ResolveFirstPayment(context.Background(), plan, order,
		decimal.NewFromInt(1), decimal.NewFromInt(1), models.FirstPaymentInput{})
	assert.Error(t, err)
}
