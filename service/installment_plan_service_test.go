package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"installment-backoffice/models"
)

func TestCreateInstallmentPlan(t *testing.T) {
	store := newFakeStore()
	svc := NewInstallmentPlanService(fakePlans{store}, zap.NewNop())

	plan, err := svc.Create(context.Background(), models.CreateInstallmentPlanRequest{
		Name:                 " Advance 500 ",
		Type:                 "Flexible",
		Duration:             3,
		InterestRate:         decimal.RequireFromString("0.05"),
		AdvancePaymentAmount: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Advance 500", plan.Name)
	assert.Equal(t, models.PlanTypeFlexible, plan.Type)

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestCreateInstallmentPlanRejectsInvalidPlans(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateInstallmentPlanRequest
	}{
		{"zero duration", models.CreateInstallmentPlanRequest{Name: "x", Type: models.PlanTypeFixed}},
		{"rate above one", models.CreateInstallmentPlanRequest{Name: "x", Type: models.PlanTypeFixed, Duration: 2, InterestRate: decimal.NewFromInt(2)}},
		{"fixed with advance", models.CreateInstallmentPlanRequest{
			Name: "x", Type: models.PlanTypeFixed, Duration: 2,
			AdvancePaymentAmount: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		}},
		{"unknown type", models.CreateInstallmentPlanRequest{Name: "x", Type: "balloon", Duration: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewInstallmentPlanService(fakePlans{store}, zap.NewNop())

			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, store.plans)
		})
	}
}
