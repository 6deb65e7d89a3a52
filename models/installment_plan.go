package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Installment plan types
const (
	PlanTypeFixed    = "fixed"
	PlanTypeFlexible = "flexible"
)

// InstallmentPlan represents a financing plan.
// InterestRate is a fraction between 0 and 1.
type InstallmentPlan struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Type                 string              `json:"planType"`
	Duration             int                 `json:"duration"`
	InterestRate         decimal.Decimal     `json:"interestRate"`
	GracePeriod          int                 `json:"gracePeriod"`
	AdvancePaymentAmount decimal.NullDecimal `json:"advancePaymentAmount"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// CreateInstallmentPlanRequest represents the request body for creating a plan
// Example: {"name": "6 months", "planType": "fixed", "duration": 6, "interestRate": "0.10", "gracePeriod": 5}
type CreateInstallmentPlanRequest struct {
	Name                 string              `json:"name"`
	Type                 string              `json:"planType"`
	Duration             int                 `json:"duration"`
	InterestRate         decimal.Decimal     `json:"interestRate"`
	GracePeriod          int                 `json:"gracePeriod"`
	AdvancePaymentAmount decimal.NullDecimal `json:"advancePaymentAmount"`
}

// PlanStrategy is the closed set of plan shapes. Switches over it must handle
// FixedStrategy and FlexibleStrategy.
type PlanStrategy interface {
	planType() string
}

// FixedStrategy charges interest on the full base amount
type FixedStrategy struct{}

// FlexibleStrategy separates an upfront advance from the financed remainder
type FlexibleStrategy struct {
	Advance    decimal.Decimal
	HasAdvance bool
}

func (FixedStrategy) planType() string    { return PlanTypeFixed }
func (FlexibleStrategy) planType() string { return PlanTypeFlexible }

// Strategy returns the tagged variant for the plan type
func (p *InstallmentPlan) Strategy() (PlanStrategy, error) {
	switch p.Type {
	case PlanTypeFixed:
		return FixedStrategy{}, nil
	case PlanTypeFlexible:
		s := FlexibleStrategy{}
		if p.AdvancePaymentAmount.Valid && p.AdvancePaymentAmount.Decimal.IsPositive() {
			s.Advance = p.AdvancePaymentAmount.Decimal
			s.HasAdvance = true
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown plan type %q", p.Type)
	}
}

// Validate checks the plan invariants
func (p *InstallmentPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalid("name", "is required")
	}
	if p.Type != PlanTypeFixed && p.Type != PlanTypeFlexible {
		return Invalid("planType", "must be %q or %q", PlanTypeFixed, PlanTypeFlexible)
	}
	if p.Duration <= 0 {
		return Invalid("duration", "must be greater than 0")
	}
	if p.InterestRate.IsNegative() || p.InterestRate.GreaterThan(decimal.NewFromInt(1)) {
		return Invalid("interestRate", "must be between 0 and 1")
	}
	if p.GracePeriod < 0 {
		return Invalid("gracePeriod", "cannot be negative")
	}
	if p.AdvancePaymentAmount.Valid {
		if p.AdvancePaymentAmount.Decimal.IsNegative() {
			return Invalid("advancePaymentAmount", "cannot be negative")
		}
		if p.Type == PlanTypeFixed && !p.AdvancePaymentAmount.Decimal.IsZero() {
			return Invalid("advancePaymentAmount", "fixed plans do not take an advance payment")
		}
	}
	return nil
}
