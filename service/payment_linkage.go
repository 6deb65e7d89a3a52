package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/pricing"
	"installment-backoffice/repository"
	"installment-backoffice/utils"
)

// PaymentIntentKind tells how a first payment attaches to the schedule
type PaymentIntentKind string

const (
	// IntentLinkedInstallment settles an existing installment through the payment procedure
	IntentLinkedInstallment PaymentIntentKind = "linked_installment"
	// IntentUnlinked records a payment without an installment reference
	IntentUnlinked PaymentIntentKind = "unlinked"
	// IntentAdvanceInstallment records a paid advance installment and a payment against it
	IntentAdvanceInstallment PaymentIntentKind = "advance_installment"
)

// PaymentIntent is the resolved shape of the first payment of a financed order
type PaymentIntent struct {
	Kind PaymentIntentKind
	// InstallmentID is set for IntentLinkedInstallment
	InstallmentID string
	// Advance is the row to create for IntentAdvanceInstallment
	Advance *models.Installment
	// Payment carries amount, method, date and references. Its InstallmentID
	// is filled once the target installment is known.
	Payment models.PaymentRecord
	Warning *FirstPaymentWarning
}

// LinkageResolver decides which installment a first payment binds to
type LinkageResolver struct {
	installments repository.InstallmentRepositoryInterface
	log          *zap.Logger
	now          func() time.Time
}

// NewLinkageResolver creates a new LinkageResolver
func NewLinkageResolver(installments repository.InstallmentRepositoryInterface, log *zap.Logger, now func() time.Time) *LinkageResolver {
	if now == nil {
		now = time.Now
	}
	return &LinkageResolver{
		installments: installments,
		log:          log.Named("service.linkage"),
		now:          now,
	}
}

// ResolveFirstPayment builds the payment intent for a freshly scheduled order.
// It only reads: creating the records described by the intent is up to the caller.
func (r *LinkageResolver) ResolveFirstPayment(
	ctx context.Context,
	plan *models.InstallmentPlan,
	order *models.Order,
	baseTotal decimal.Decimal,
	computedTotal decimal.Decimal,
	input models.FirstPaymentInput,
) (*PaymentIntent, error) {
	strategy, err := plan.Strategy()
	if err != nil {
		return nil, fmt.Errorf("resolve first payment: %w", err)
	}

	today := utils.TruncateToDate(r.now())
	paymentDate, err := utils.ParseDate(input.PaymentDate, r.now())
	if err != nil {
		return nil, models.Invalid("firstPayment.paymentDate", "%v", err)
	}

	record := models.PaymentRecord{
		OrderID:         order.ID,
		Amount:          input.Amount,
		PaymentMethod:   input.PaymentMethod,
		PaymentDate:     paymentDate,
		ReferenceNumber: input.ReferenceNumber,
		Notes:           input.Notes,
	}

	switch s := strategy.(type) {
	case models.FixedStrategy:
		return r.resolveFixed(ctx, plan, order, computedTotal, record)
	case models.FlexibleStrategy:
		if record.Amount.IsZero() {
			record.Amount = s.Advance
		}
		if !record.Amount.IsPositive() {
			return nil, models.Invalid("firstPayment.amount", "a flexible plan without an advance needs an explicit amount")
		}
		if record.Amount.GreaterThan(computedTotal) {
			r.log.Warn("ResolveFirstPayment: advance exceeds order total",
				zap.String("order_id", order.ID),
				zap.String("base", baseTotal.StringFixed(2)),
				zap.String("amount", record.Amount.StringFixed(2)),
			)
		}
		paidOn := today
		return &PaymentIntent{
			Kind: IntentAdvanceInstallment,
			Advance: &models.Installment{
				OrderID:     order.ID,
				PlanID:      plan.ID,
				Label:       models.AdvancePaymentLabel,
				DueDate:     today,
				Amount:      record.Amount,
				Status:      models.InstallmentStatusPaid,
				PaymentDate: &paidOn,
			},
			Payment: record,
		}, nil
	default:
		return nil, fmt.Errorf("resolve first payment: unsupported plan strategy %T", strategy)
	}
}

func (r *LinkageResolver) resolveFixed(
	ctx context.Context,
	plan *models.InstallmentPlan,
	order *models.Order,
	computedTotal decimal.Decimal,
	record models.PaymentRecord,
) (*PaymentIntent, error) {
	found, err := r.installments.ListByOrderAndLabel(ctx, order.ID, models.FirstInstallmentLabel)
	if err != nil {
		return nil, fmt.Errorf("find first installment: %w", err)
	}

	if len(found) == 0 {
		if record.Amount.IsZero() {
			record.Amount = pricing.SuggestedFirstPayment(plan, computedTotal)
		}
		warning := &FirstPaymentWarning{
			OrderID: order.ID,
			Reason:  "first installment not found, payment recorded without installment link",
		}
		r.log.Warn("ResolveFirstPayment: falling back to unlinked payment", zap.String("order_id", order.ID))
		return &PaymentIntent{Kind: IntentUnlinked, Payment: record, Warning: warning}, nil
	}

	first := found[0]
	if record.Amount.IsZero() {
		record.Amount = first.Amount
	}
	installmentID := first.ID
	record.InstallmentID = &installmentID

	return &PaymentIntent{
		Kind:          IntentLinkedInstallment,
		InstallmentID: first.ID,
		Payment:       record,
	}, nil
}
