package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentReceived  = "PaymentReceived"
	EventTypePaymentCompleted = "PaymentCompleted"
	EventTypePaymentFailed    = "PaymentFailed"
	EventTypePaymentRefunded  = "PaymentRefunded"
)

// PaymentReceivedEvent is raised when a customer reports a payment
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	PaymentID       uuid.UUID       `json:"payment_id"`
	OrderID         uuid.UUID       `json:"order_id"`
	MethodName      string          `json:"method_name"`
	ReferenceNumber string          `json:"reference_number"`
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	AmountVES       decimal.Decimal `json:"amount_ves"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(p *Payment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReceived, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		MethodName:      p.MethodName,
		ReferenceNumber: p.ReferenceNumber,
		AmountUSD:       p.AmountUSD,
		AmountVES:       p.AmountVES,
	}
}

// EventType returns the event type name
func (e *PaymentReceivedEvent) EventType() string {
	return EventTypePaymentReceived
}

// PaymentCompletedEvent is raised when a payment is verified by an admin
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	OrderID   uuid.UUID       `json:"order_id"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(p *Payment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		AmountUSD:       p.AmountUSD,
	}
}

// EventType returns the event type name
func (e *PaymentCompletedEvent) EventType() string {
	return EventTypePaymentCompleted
}

// PaymentFailedEvent is raised when a payment verification fails
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID `json:"payment_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Reason    string    `json:"reason"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(p *Payment, reason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *PaymentFailedEvent) EventType() string {
	return EventTypePaymentFailed
}

// PaymentRefundedEvent is raised on a full or partial refund
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	OrderID     uuid.UUID       `json:"order_id"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
	RefundedUSD decimal.Decimal `json:"refunded_usd"`
	Status      PaymentStatus   `json:"status"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(p *Payment, refundAmount decimal.Decimal) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		OrderID:         p.OrderID,
		AmountUSD:       refundAmount,
		RefundedUSD:     p.RefundedUSD,
		Status:          p.Status,
	}
}

// EventType returns the event type name
func (e *PaymentRefundedEvent) EventType() string {
	return EventTypePaymentRefunded
}
