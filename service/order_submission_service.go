package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"installment-backoffice/metrics"
	"installment-backoffice/models"
	"installment-backoffice/pricing"
	"installment-backoffice/repository"
	"installment-backoffice/utils"
)

// OrderSubmissionParams wires the collaborators of OrderSubmissionService
type OrderSubmissionParams struct {
	Orders       repository.OrderRepositoryInterface
	Items        repository.OrderItemRepositoryInterface
	Installments repository.InstallmentRepositoryInterface
	Payments     repository.PaymentRepositoryInterface
	Plans        repository.InstallmentPlanRepositoryInterface
	Journal      repository.SubmissionRepositoryInterface
	Guard        SubmissionGuard
	Metrics      *metrics.Submissions
	Log          *zap.Logger
	Now          func() time.Time
	NewID        func() string
}

// OrderSubmissionService drives one order submission through
// Idle -> OrderCreated -> ItemsPersisted -> ScheduleGenerated -> PaymentCaptured -> Done.
// Stages run strictly in sequence and are never rolled back.
type OrderSubmissionService struct {
	orders       repository.OrderRepositoryInterface
	items        repository.OrderItemRepositoryInterface
	installments repository.InstallmentRepositoryInterface
	payments     repository.PaymentRepositoryInterface
	plans        repository.InstallmentPlanRepositoryInterface
	journal      repository.SubmissionRepositoryInterface
	guard        SubmissionGuard
	metrics      *metrics.Submissions
	resolver     *LinkageResolver
	log          *zap.Logger
	now          func() time.Time
	newID        func() string
}

// Ensure OrderSubmissionService implements OrderSubmissionServiceInterface
var _ OrderSubmissionServiceInterface = (*OrderSubmissionService)(nil)

// NewOrderSubmissionService creates a new OrderSubmissionService
func NewOrderSubmissionService(p OrderSubmissionParams) *OrderSubmissionService {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.NewID == nil {
		p.NewID = uuid.NewString
	}
	if p.Guard == nil {
		p.Guard = NoopSubmissionGuard{}
	}

	return &OrderSubmissionService{
		orders:       p.Orders,
		items:        p.Items,
		installments: p.Installments,
		payments:     p.Payments,
		plans:        p.Plans,
		journal:      p.Journal,
		guard:        p.Guard,
		metrics:      p.Metrics,
		resolver:     NewLinkageResolver(p.Installments, p.Log, p.Now),
		log:          p.Log.Named("service.order_submission"),
		now:          p.Now,
		newID:        p.NewID,
	}
}

// preparedSubmission is a validated request with its plan snapshot and priced total
type preparedSubmission struct {
	header       models.OrderHeader
	items        []models.OrderItemInput
	plan         *models.InstallmentPlan
	breakdown    pricing.Breakdown
	firstPayment *models.FirstPaymentInput
}

// submissionRun tracks the progress of one attempt
type submissionRun struct {
	id      string
	last    models.SubmissionStage
	orderID string
}

// Quote prices a prospective order without writing anything
func (s *OrderSubmissionService) Quote(ctx context.Context, req models.QuoteRequest) (*models.QuoteResponse, error) {
	method := utils.MapPaymentMethodToCode(req.PaymentMethod)
	if !models.IsValidOrderPaymentMethod(method) {
		return nil, models.Invalid("paymentMethod", "unknown payment method %q", req.PaymentMethod)
	}

	var base decimal.Decimal
	switch {
	case req.BaseAmount != nil:
		if req.BaseAmount.IsNegative() {
			return nil, models.Invalid("baseAmount", "cannot be negative")
		}
		base = *req.BaseAmount
	case len(req.Items) > 0:
		if err := validateItems(req.Items); err != nil {
			return nil, err
		}
		base = pricing.BaseAmount(req.Items)
	default:
		return nil, models.Invalid("items", "provide items or baseAmount")
	}

	plan, err := s.planFor(ctx, method, req.InstallmentPlanID)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.Compute(base, method, plan)
	if breakdown.Advance.GreaterThan(base) {
		return nil, models.Invalid("installmentPlanId", "advance payment %s exceeds the order amount %s",
			breakdown.Advance.StringFixed(2), base.StringFixed(2))
	}
	resp := &models.QuoteResponse{
		PaymentMethod:         method,
		Base:                  breakdown.Base,
		Advance:               breakdown.Advance,
		Remaining:             breakdown.Remaining,
		Interest:              breakdown.Interest.Round(2),
		Total:                 breakdown.Total.Round(2),
		SuggestedFirstPayment: decimal.Zero,
	}
	if plan != nil {
		resp.InstallmentPlanID = plan.ID
		resp.SuggestedFirstPayment = pricing.SuggestedFirstPayment(plan, resp.Total)
	}
	return resp, nil
}

// Submit validates req and drives it through every stage. A StageError is
// returned when a collaborator fails; whatever was created before stays in place.
func (s *OrderSubmissionService) Submit(ctx context.Context, req models.SubmitOrderRequest, idempotencyKey string) (*models.SubmitOrderResponse, error) {
	prepared, err := s.prepare(ctx, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			s.metrics.Outcome(metrics.OutcomeValidation)
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmissionAbandoned, err)
	}

	if key := strings.TrimSpace(idempotencyKey); key != "" {
		ok, err := s.guard.Claim(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.metrics.Outcome(metrics.OutcomeDuplicate)
			s.log.Warn("SubmitOrder: duplicate submission rejected", zap.String("idempotency_key", key))
			return nil, fmt.Errorf("%w: key %q was already used", ErrDuplicateSubmission, key)
		}

		// Nothing was written yet, so an abandoned attempt gives its key back
		if err := ctx.Err(); err != nil {
			if relErr := s.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
				s.log.Warn("SubmitOrder: could not release submission key", zap.String("idempotency_key", key), zap.Error(relErr))
			}
			return nil, fmt.Errorf("%w: %w", ErrSubmissionAbandoned, err)
		}
	}

	run := &submissionRun{id: s.newID(), last: models.StageIdle}
	if err := s.journal.Begin(ctx, run.id); err != nil {
		s.log.Warn("SubmitOrder: could not open submission journal", zap.String("submission_id", run.id), zap.Error(err))
	}

	s.log.Info("SubmitOrder: starting submission",
		zap.String("submission_id", run.id),
		zap.String("customer_id", prepared.header.CustomerID),
		zap.String("payment_method", prepared.header.PaymentMethod),
		zap.String("total", prepared.header.TotalAmount.StringFixed(2)),
	)
	return s.execute(ctx, run, prepared)
}

func (s *OrderSubmissionService) execute(ctx context.Context, run *submissionRun, p *preparedSubmission) (*models.SubmitOrderResponse, error) {
	order, err := s.orders.Create(ctx, p.header)
	if err != nil {
		return nil, s.fail(ctx, run, models.StageOrderCreated, err)
	}

	// Past this point there is no cancellation: the flow ends in Done or Failed.
	ctx = context.WithoutCancel(ctx)
	run.orderID = order.ID
	s.advance(ctx, run, models.StageOrderCreated)

	items, err := s.items.CreateBatch(ctx, order.ID, p.items)
	if err != nil {
		return nil, s.fail(ctx, run, models.StageItemsPersisted, err)
	}
	s.advance(ctx, run, models.StageItemsPersisted)

	resp := &models.SubmitOrderResponse{
		SubmissionID: run.id,
		Order:        *order,
		Items:        items,
	}

	if p.plan == nil {
		return s.finish(ctx, run, resp), nil
	}

	schedule, err := s.installments.GenerateSchedule(ctx, order.ID, p.plan.ID, p.header.OrderDate)
	if err != nil {
		return nil, s.fail(ctx, run, models.StageScheduleGenerated, err)
	}
	resp.InstallmentsCreated = schedule.InstallmentsCreated
	s.advance(ctx, run, models.StageScheduleGenerated)

	if schedule.InstallmentsCreated == 0 {
		s.log.Info("SubmitOrder: no installments generated, advance covers the balance",
			zap.String("submission_id", run.id),
			zap.String("order_id", order.ID),
		)
	}

	if p.firstPayment == nil {
		return s.finish(ctx, run, resp), nil
	}

	payment, warning, err := s.captureFirstPayment(ctx, p, order)
	if err != nil {
		return nil, s.fail(ctx, run, models.StagePaymentCaptured, err)
	}
	resp.Payment = payment
	if warning != nil {
		resp.Warnings = append(resp.Warnings, warning.Reason)
		s.metrics.FirstPaymentFallback()
	}
	s.advance(ctx, run, models.StagePaymentCaptured)

	return s.finish(ctx, run, resp), nil
}

// captureFirstPayment resolves the linkage of the first payment and issues exactly one payment write
func (s *OrderSubmissionService) captureFirstPayment(ctx context.Context, p *preparedSubmission, order *models.Order) (*models.Payment, *FirstPaymentWarning, error) {
	intent, err := s.resolver.ResolveFirstPayment(ctx, p.plan, order, p.breakdown.Base, order.TotalAmount, *p.firstPayment)
	if err != nil {
		return nil, nil, err
	}

	switch intent.Kind {
	case IntentLinkedInstallment:
		processed, err := s.payments.ProcessInstallmentPayment(ctx, models.InstallmentPaymentRequest{
			OrderID:         order.ID,
			InstallmentID:   intent.InstallmentID,
			Amount:          intent.Payment.Amount,
			PaymentMethod:   intent.Payment.PaymentMethod,
			ReferenceNumber: intent.Payment.ReferenceNumber,
			Notes:           intent.Payment.Notes,
		})
		if err != nil {
			return nil, nil, err
		}
		// process_payment stamps the payment with the current date
		today := utils.TruncateToDate(s.now())
		installmentID := intent.InstallmentID
		return &models.Payment{
			ID:              processed.PaymentID,
			OrderID:         order.ID,
			InstallmentID:   &installmentID,
			Amount:          intent.Payment.Amount,
			PaymentMethod:   intent.Payment.PaymentMethod,
			PaymentDate:     today,
			ReferenceNumber: intent.Payment.ReferenceNumber,
			Notes:           intent.Payment.Notes,
			CreatedAt:       s.now(),
		}, nil, nil

	case IntentUnlinked:
		payment, err := s.payments.Create(ctx, intent.Payment)
		if err != nil {
			return nil, nil, err
		}
		return payment, intent.Warning, nil

	case IntentAdvanceInstallment:
		advance, err := s.installments.Create(ctx, *intent.Advance)
		if err != nil {
			return nil, nil, fmt.Errorf("create advance installment: %w", err)
		}
		record := intent.Payment
		record.InstallmentID = &advance.ID
		payment, err := s.payments.Create(ctx, record)
		if err != nil {
			return nil, nil, err
		}
		return payment, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown payment intent %q", intent.Kind)
	}
}

func (s *OrderSubmissionService) advance(ctx context.Context, run *submissionRun, stage models.SubmissionStage) {
	run.last = stage
	if err := s.journal.MarkStage(ctx, run.id, stage, run.orderID); err != nil {
		s.log.Warn("SubmitOrder: could not journal stage",
			zap.String("submission_id", run.id),
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
	}
}

func (s *OrderSubmissionService) finish(ctx context.Context, run *submissionRun, resp *models.SubmitOrderResponse) *models.SubmitOrderResponse {
	if err := s.journal.MarkDone(ctx, run.id); err != nil {
		s.log.Warn("SubmitOrder: could not close submission journal", zap.String("submission_id", run.id), zap.Error(err))
	}
	s.metrics.Outcome(metrics.OutcomeDone)
	s.log.Info("SubmitOrder: submission done",
		zap.String("submission_id", run.id),
		zap.String("order_id", run.orderID),
		zap.String("last_stage", string(run.last)),
		zap.Int("installments_created", resp.InstallmentsCreated),
	)
	return resp
}

func (s *OrderSubmissionService) fail(ctx context.Context, run *submissionRun, stage models.SubmissionStage, cause error) error {
	stageErr := &StageError{
		Stage:         stage,
		LastCompleted: run.last,
		SubmissionID:  run.id,
		OrderID:       run.orderID,
		Err:           cause,
	}

	s.log.Error("SubmitOrder: stage failed",
		zap.String("submission_id", run.id),
		zap.String("order_id", run.orderID),
		zap.String("stage", string(stage)),
		zap.String("last_completed_stage", string(run.last)),
		zap.Error(cause),
	)
	s.metrics.StageFailure(string(stage))

	if err := s.journal.MarkFailed(context.WithoutCancel(ctx), run.id, stage, cause.Error()); err != nil {
		s.log.Warn("SubmitOrder: could not journal failure", zap.String("submission_id", run.id), zap.Error(err))
	}
	return stageErr
}

// GetSubmission returns the journal of one attempt
func (s *OrderSubmissionService) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	return s.journal.GetByID(ctx, id)
}

// prepare validates req, snapshots the plan and prices the order. Nothing is written.
func (s *OrderSubmissionService) prepare(ctx context.Context, req models.SubmitOrderRequest) (*preparedSubmission, error) {
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return nil, models.Invalid("customerId", "is required")
	}
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, models.Invalid("customerId", "%q is not a valid id", req.CustomerID)
	}

	method := utils.MapPaymentMethodToCode(req.PaymentMethod)
	if !models.IsValidOrderPaymentMethod(method) {
		return nil, models.Invalid("paymentMethod", "unknown payment method %q", req.PaymentMethod)
	}

	status := utils.NormalizeCode(req.Status)
	if status == "" {
		status = models.OrderStatusPending
	}
	if !models.IsValidOrderStatus(status) {
		return nil, models.Invalid("status", "unknown order status %q", req.Status)
	}

	orderDate, err := utils.ParseDate(req.OrderDate, s.now())
	if err != nil {
		return nil, models.Invalid("orderDate", "%v", err)
	}

	if len(req.Items) == 0 {
		return nil, models.Invalid("items", "at least one line item is required")
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	plan, err := s.planFor(ctx, method, req.InstallmentPlanID)
	if err != nil {
		return nil, err
	}

	base := pricing.BaseAmount(req.Items)
	breakdown := pricing.Compute(base, method, plan)
	if breakdown.Advance.GreaterThan(base) {
		return nil, models.Invalid("installmentPlanId", "advance payment %s exceeds the order amount %s",
			breakdown.Advance.StringFixed(2), base.StringFixed(2))
	}

	total := breakdown.Total.Round(2)
	if !total.IsPositive() {
		return nil, models.Invalid("items", "order total must be greater than 0")
	}

	firstPayment, err := s.prepareFirstPayment(plan, req.FirstPayment)
	if err != nil {
		return nil, err
	}

	return &preparedSubmission{
		header: models.OrderHeader{
			CustomerID:    customerID,
			TotalAmount:   total,
			PaymentMethod: method,
			Status:        status,
			OrderDate:     orderDate,
		},
		items:        req.Items,
		plan:         plan,
		breakdown:    breakdown,
		firstPayment: firstPayment,
	}, nil
}

// planFor loads the plan of an installment order. Other payment methods carry no plan,
// so a plan id sent with them is dropped.
func (s *OrderSubmissionService) planFor(ctx context.Context, method, planID string) (*models.InstallmentPlan, error) {
	planID = strings.TrimSpace(planID)
	if method != models.PaymentMethodInstallment {
		if planID != "" {
			s.log.Debug("planFor: dropping installment plan of an unfinanced order",
				zap.String("payment_method", method),
				zap.String("plan_id", planID),
			)
		}
		return nil, nil
	}

	if planID == "" {
		return nil, models.Invalid("installmentPlanId", "an installment plan is required for installment orders")
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, models.Invalid("installmentPlanId", "installment plan %s not found", planID)
		}
		return nil, fmt.Errorf("failed to load installment plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, models.Invalid("installmentPlanId", "plan %s is not usable: %v", planID, err)
	}
	return plan, nil
}

func (s *OrderSubmissionService) prepareFirstPayment(plan *models.InstallmentPlan, input *models.FirstPaymentInput) (*models.FirstPaymentInput, error) {
	if plan == nil {
		if input != nil {
			s.log.Debug("prepareFirstPayment: dropping first payment of an unfinanced order")
		}
		return nil, nil
	}

	strategy, err := plan.Strategy()
	if err != nil {
		return nil, models.Invalid("installmentPlanId", "%v", err)
	}
	flexible, isFlexible := strategy.(models.FlexibleStrategy)

	if input == nil {
		if isFlexible && flexible.HasAdvance {
			return nil, models.Invalid("firstPayment", "is required for a plan with an advance payment")
		}
		return nil, nil
	}

	fp := *input
	if fp.Amount.IsNegative() {
		return nil, models.Invalid("firstPayment.amount", "cannot be negative")
	}
	if fp.Amount.IsZero() && isFlexible && !flexible.HasAdvance {
		return nil, models.Invalid("firstPayment.amount", "is required when the plan has no advance payment")
	}

	fp.PaymentMethod = utils.MapPaymentMethodToCode(fp.PaymentMethod)
	if !models.IsValidPaymentMethod(fp.PaymentMethod) {
		return nil, models.Invalid("firstPayment.paymentMethod", "unknown payment method %q", input.PaymentMethod)
	}
	if _, err := utils.ParseDate(fp.PaymentDate, s.now()); err != nil {
		return nil, models.Invalid("firstPayment.paymentDate", "%v", err)
	}
	return &fp, nil
}

func validateItems(items []models.OrderItemInput) error {
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" {
			return models.Invalid(field+".productId", "is required")
		}
		if _, err := uuid.Parse(productID); err != nil {
			return models.Invalid(field+".productId", "%q is not a valid id", item.ProductID)
		}
		if item.Quantity < 1 {
			return models.Invalid(field+".quantity", "must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return models.Invalid(field+".unitPrice", "cannot be negative")
		}
	}
	return nil
}
