package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order payment methods
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodDebitCard    = "debit_card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodInstallment  = "installment"
	// PaymentMethodCheck is accepted for payments only, never as an order payment method
	PaymentMethodCheck = "check"
)

var orderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderPaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodBankTransfer,
	PaymentMethodInstallment,
}

var paymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodBankTransfer,
	PaymentMethodCheck,
}

// Order represents an order in the database
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	OrderDate     time.Time       `json:"orderDate"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OrderHeader is the data submitted when an order row is created
type OrderHeader struct {
	CustomerID    string
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        string
	OrderDate     time.Time
}

// OrderItem represents a line item of an order
type OrderItem struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"orderId"`
	ProductID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// OrderItemInput is a line item as collected before the order exists.
// UnitPrice is the product price snapshotted when the line was added.
type OrderItemInput struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity * unit price
func (i OrderItemInput) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDetail is an order with everything anchored to it
type OrderDetail struct {
	Order
	Items        []OrderItem   `json:"items"`
	Installments []Installment `json:"installments"`
	Payments     []Payment     `json:"payments"`
}

// UpdateOrderRequest represents a full edit of an order.
// Only Status may actually change once the order exists.
// Example: {"status": "shipped"}
type UpdateOrderRequest struct {
	CustomerID    *string          `json:"customerId,omitempty"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	OrderDate     *string          `json:"orderDate,omitempty"`
	Status        *string          `json:"status,omitempty"`
}

// TouchesImmutableFields reports whether the request edits anything besides status
func (r *UpdateOrderRequest) TouchesImmutableFields() bool {
	return r.CustomerID != nil || r.TotalAmount != nil || r.PaymentMethod != nil || r.OrderDate != nil
}

// UpdateOrderStatusRequest represents the request body for a status change
// Example: {"status": "processing"}
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// IsValidOrderStatus reports whether status is a known order status
func IsValidOrderStatus(status string) bool {
	return contains(orderStatuses, status)
}

// IsValidOrderPaymentMethod reports whether method can be used on an order
func IsValidOrderPaymentMethod(method string) bool {
	return contains(orderPaymentMethods, method)
}

// IsValidPaymentMethod reports whether method can be used on a payment record
func IsValidPaymentMethod(method string) bool {
	return contains(paymentMethods, method)
}

// IsLockedStatus reports whether an order in this status can no longer be edited or deleted
func IsLockedStatus(status string) bool {
	return status == OrderStatusShipped || status == OrderStatusDelivered
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
