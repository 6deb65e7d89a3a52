package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"installment-backoffice/models"
	"installment-backoffice/repository"
)

var errRemote = errors.New("remote call failed")

// callLog records collaborator calls in the order they happen
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) count(name string) int {
	n := 0
	for _, c := range l.list() {
		if c == name {
			n++
		}
	}
	return n
}

type fakeStore struct {
	log *callLog

	failCreateOrder    error
	failCreateItems    error
	failSchedule       error
	failProcessPayment error
	failCreatePayment  error

	orders       map[string]*models.Order
	items        map[string][]models.OrderItem
	installments map[string][]models.Installment
	payments     map[string][]models.Payment
	plans        map[string]*models.InstallmentPlan
	customers    map[string]bool

	// scheduleRows overrides how many installments GenerateSchedule creates; -1 means plan.Duration
	scheduleRows int
	seq          int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		log:          &callLog{},
		orders:       map[string]*models.Order{},
		items:        map[string][]models.OrderItem{},
		installments: map[string][]models.Installment{},
		payments:     map[string][]models.Payment{},
		plans:        map[string]*models.InstallmentPlan{},
		customers:    map[string]bool{},
		scheduleRows: -1,
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// orders

type fakeOrders struct{ *fakeStore }

func (f fakeOrders) Create(ctx context.Context, h models.OrderHeader) (*models.Order, error) {
	f.log.add("createOrder")
	if f.failCreateOrder != nil {
		return nil, f.failCreateOrder
	}
	o := &models.Order{
		ID:            f.nextID("order"),
		CustomerID:    h.CustomerID,
		TotalAmount:   h.TotalAmount,
		PaymentMethod: h.PaymentMethod,
		Status:        h.Status,
		OrderDate:     h.OrderDate,
	}
	f.orders[o.ID] = o
	return o, nil
}

func (f fakeOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (f fakeOrders) UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	f.log.add("updateOrderStatus")
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (f fakeOrders) Delete(ctx context.Context, id string) error {
	f.log.add("deleteOrder")
	if _, ok := f.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f fakeOrders) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	n := 0
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

// items

type fakeItems struct{ *fakeStore }

func (f fakeItems) CreateBatch(ctx context.Context, orderID string, in []models.OrderItemInput) ([]models.OrderItem, error) {
	f.log.add("createOrderItems")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failCreateItems != nil {
		return nil, f.failCreateItems
	}
	out := make([]models.OrderItem, 0, len(in))
	for _, it := range in {
		out = append(out, models.OrderItem{
			ID:         f.nextID("item"),
			OrderID:    orderID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.LineTotal(),
		})
	}
	f.items[orderID] = append(f.items[orderID], out...)
	return out, nil
}

func (f fakeItems) ListByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

// installments

type fakeInstallments struct{ *fakeStore }

func (f fakeInstallments) GenerateSchedule(ctx context.Context, orderID, planID string, start time.Time) (*models.ScheduleResult, error) {
	f.log.add("generateInstallmentSchedule")
	if f.failSchedule != nil {
		return nil, f.failSchedule
	}
	plan := f.plans[planID]
	order := f.orders[orderID]

	financed := order.TotalAmount
	if plan.AdvancePaymentAmount.Valid {
		financed = financed.Sub(plan.AdvancePaymentAmount.Decimal)
	}
	rows := plan.Duration
	if f.scheduleRows >= 0 {
		rows = f.scheduleRows
	}
	if !financed.IsPositive() {
		rows = 0
	}
	for i := 1; i <= rows; i++ {
		f.installments[orderID] = append(f.installments[orderID], models.Installment{
			ID:      f.nextID("inst"),
			OrderID: orderID,
			PlanID:  planID,
			Label:   fmt.Sprint(i),
			DueDate: start.AddDate(0, i-1, 0),
			Amount:  financed.Div(decimal.NewFromInt(int64(plan.Duration))).Round(2),
			Status:  models.InstallmentStatusPending,
		})
	}
	return &models.ScheduleResult{InstallmentsCreated: rows}, nil
}

func (f fakeInstallments) ListByOrderAndLabel(ctx context.Context, orderID, label string) ([]models.Installment, error) {
	f.log.add("listInstallments")
	var out []models.Installment
	for _, in := range f.installments[orderID] {
		if in.Label == label {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f fakeInstallments) ListByOrder(ctx context.Context, orderID string) ([]models.Installment, error) {
	return f.installments[orderID], nil
}

func (f fakeInstallments) Create(ctx context.Context, in models.Installment) (*models.Installment, error) {
	f.log.add("createInstallment")
	in.ID = f.nextID("inst")
	f.installments[in.OrderID] = append(f.installments[in.OrderID], in)
	return &in, nil
}

func (f fakeInstallments) RefreshOverdue(ctx context.Context) (int, error) {
	f.log.add("refreshOverdue")
	return 2, nil
}

// payments

type fakePayments struct{ *fakeStore }

func (f fakePayments) ProcessInstallmentPayment(ctx context.Context, req models.InstallmentPaymentRequest) (*models.ProcessedPayment, error) {
	f.log.add("processInstallmentPayment")
	if f.failProcessPayment != nil {
		return nil, f.failProcessPayment
	}
	id := f.nextID("pay")
	installmentID := req.InstallmentID
	f.payments[req.OrderID] = append(f.payments[req.OrderID], models.Payment{
		ID:            id,
		OrderID:       req.OrderID,
		InstallmentID: &installmentID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	return &models.ProcessedPayment{PaymentID: id, RemainingAmount: decimal.Zero}, nil
}

func (f fakePayments) Create(ctx context.Context, rec models.PaymentRecord) (*models.Payment, error) {
	f.log.add("createPayment")
	if f.failCreatePayment != nil {
		return nil, f.failCreatePayment
	}
	p := models.Payment{
		ID:              f.nextID("pay"),
		OrderID:         rec.OrderID,
		InstallmentID:   rec.InstallmentID,
		Amount:          rec.Amount,
		PaymentMethod:   rec.PaymentMethod,
		PaymentDate:     rec.PaymentDate,
		ReferenceNumber: rec.ReferenceNumber,
		Notes:           rec.Notes,
	}
	f.payments[rec.OrderID] = append(f.payments[rec.OrderID], p)
	return &p, nil
}

func (f fakePayments) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	return f.payments[orderID], nil
}

// plans

type fakePlans struct{ *fakeStore }

func (f fakePlans) GetByID(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, fmt.Errorf("installment plan %s: %w", id, repository.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f fakePlans) List(ctx context.Context) ([]models.InstallmentPlan, error) {
	out := []models.InstallmentPlan{}
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (f fakePlans) Create(ctx context.Context, plan models.InstallmentPlan) (*models.InstallmentPlan, error) {
	plan.ID = f.nextID("plan")
	f.plans[plan.ID] = &plan
	return &plan, nil
}

// customers

type fakeCustomers struct{ *fakeStore }

func (f fakeCustomers) Delete(ctx context.Context, id string) error {
	f.log.add("deleteCustomer")
	if !f.customers[id] {
		return repository.ErrNotFound
	}
	delete(f.customers, id)
	return nil
}

// journal

type fakeJournal struct {
	mu      sync.Mutex
	entries map[string]*models.Submission
	fail    bool
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{entries: map[string]*models.Submission{}}
}

func (j *fakeJournal) Begin(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errRemote
	}
	j.entries[id] = &models.Submission{ID: id, Status: models.SubmissionInProgress, LastCompletedStage: models.StageIdle}
	return nil
}

func (j *fakeJournal) MarkStage(ctx context.Context, id string, stage models.SubmissionStage, orderID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errRemote
	}
	e := j.entries[id]
	e.LastCompletedStage = stage
	if orderID != "" {
		e.OrderID = orderID
	}
	return nil
}

func (j *fakeJournal) MarkDone(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errRemote
	}
	e := j.entries[id]
	e.Status = models.SubmissionDone
	e.LastCompletedStage = models.StageDone
	return nil
}

func (j *fakeJournal) MarkFailed(ctx context.Context, id string, stage models.SubmissionStage, cause string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errRemote
	}
	e := j.entries[id]
	e.Status = models.SubmissionFailed
	e.FailedStage = stage
	e.Error = cause
	return nil
}

func (j *fakeJournal) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// guard

type fakeGuard struct {
	claimed map[string]bool
}

func (g *fakeGuard) Claim(ctx context.Context, key string) (bool, error) {
	if g.claimed[key] {
		return false, nil
	}
	g.claimed[key] = true
	return true, nil
}

func (g *fakeGuard) Release(ctx context.Context, key string) error {
	delete(g.claimed, key)
	return nil
}
