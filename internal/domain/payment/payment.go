package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/shared"
)

// PaymentStatus represents the status of a payment record
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusCompleted || target == PaymentStatusFailed
	case PaymentStatusCompleted:
		return target == PaymentStatusRefunded || target == PaymentStatusPartiallyRefunded
	case PaymentStatusPartiallyRefunded:
		return target == PaymentStatusRefunded
	case PaymentStatusFailed, PaymentStatusRefunded:
		return false // Terminal states
	}
	return false
}

// MethodType classifies payment methods by how the customer pays
type MethodType string

const (
	MethodTypeBankTransfer  MethodType = "bank_transfer"
	MethodTypeMobilePayment MethodType = "mobile_payment"
	MethodTypeZelle         MethodType = "zelle"
	MethodTypeCrypto        MethodType = "crypto"
	MethodTypeCash          MethodType = "cash"
	MethodTypeInternational MethodType = "international"
)

// IsValid checks if the method type is known
func (t MethodType) IsValid() bool {
	switch t {
	case MethodTypeBankTransfer, MethodTypeMobilePayment, MethodTypeZelle,
		MethodTypeCrypto, MethodTypeCash, MethodTypeInternational:
		return true
	}
	return false
}

// Method represents a configured way customers can pay.
// Account details are free-form text shown to the customer at checkout.
type Method struct {
	shared.BaseEntity
	Name         string     `gorm:"not null" json:"name"`
	Code         string     `gorm:"uniqueIndex;not null" json:"code"`
	Type         MethodType `gorm:"type:varchar(30);not null" json:"type"`
	AccountInfo  string     `json:"account_info"`
	Instructions string     `json:"instructions"`
	DisplayOrder int        `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for GORM
func (Method) TableName() string {
	return "payment_methods"
}

// NewMethod creates a new payment method
func NewMethod(name, code string, methodType MethodType, accountInfo string) (*Method, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_METHOD_NAME", "Payment method name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_METHOD_CODE", "Payment method code cannot be empty")
	}
	if !methodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD_TYPE", fmt.Sprintf("Unknown payment method type: %s", methodType))
	}

	return &Method{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Code:        code,
		Type:        methodType,
		AccountInfo: accountInfo,
		IsActive:    true,
	}, nil
}

// Update updates the editable method fields
func (m *Method) Update(name, accountInfo, instructions string, displayOrder int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_METHOD_NAME", "Payment method name cannot be empty")
	}
	m.Name = name
	m.AccountInfo = accountInfo
	m.Instructions = instructions
	m.DisplayOrder = displayOrder
	m.UpdatedAt = time.Now()
	return nil
}

// Activate makes the method selectable at checkout
func (m *Method) Activate() {
	m.IsActive = true
	m.UpdatedAt = time.Now()
}

// Deactivate hides the method from checkout without deleting history
func (m *Method) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
}

// Payment represents a payment record for an order.
// Amounts are snapshotted from the order at confirmation time so later
// rate changes never alter what was charged. Payments are never deleted.
type Payment struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MethodID        uuid.UUID       `gorm:"type:uuid;not null" json:"method_id"`
	MethodName      string          `gorm:"not null" json:"method_name"`
	AmountUSD       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_usd"`
	AmountVES       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount_ves"`
	CurrencyRate    decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"currency_rate"`
	RefundedUSD     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"refunded_usd"`
	Status          PaymentStatus   `gorm:"type:varchar(30);not null;index" json:"status"`
	ReferenceNumber string          `gorm:"not null" json:"reference_number"`
	ReceiptImageURL string          `json:"receipt_image_url"`
	PayerName       string          `json:"payer_name"`
	PayerPhone      string          `json:"payer_phone"`
	AdminNotes      string          `json:"admin_notes"`
	UserID          *uuid.UUID      `gorm:"type:uuid" json:"user_id"`
	PaymentDate     *time.Time      `json:"payment_date"`
	CompletedAt     *time.Time      `json:"completed_at"`
	FailedAt        *time.Time      `json:"failed_at"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment record for an order.
// The reference number identifies the customer's transfer and is required.
func NewPayment(orderID uuid.UUID, method *Method, amountUSD, amountVES, rate decimal.Decimal, referenceNumber string, userID *uuid.UUID) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if method == nil {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is required")
	}
	if !method.IsActive {
		return nil, shared.NewDomainError("METHOD_INACTIVE", "Payment method is not active")
	}
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference number is required")
	}
	if amountUSD.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	now := time.Now()
	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		MethodID:          method.ID,
		MethodName:        method.Name,
		AmountUSD:         amountUSD,
		AmountVES:         amountVES,
		CurrencyRate:      rate,
		RefundedUSD:       decimal.Zero,
		Status:            PaymentStatusPending,
		ReferenceNumber:   referenceNumber,
		UserID:            userID,
		PaymentDate:       &now,
	}

	p.AddDomainEvent(NewPaymentReceivedEvent(p))

	return p, nil
}

// Complete marks the payment as verified and completed
func (p *Payment) Complete(adminNotes string) error {
	if !p.Status.CanTransitionTo(PaymentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete payment in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	if adminNotes != "" {
		p.AdminNotes = adminNotes
	}

	p.AddDomainEvent(NewPaymentCompletedEvent(p))

	return nil
}

// Fail marks the payment as failed with a required reason
func (p *Payment) Fail(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
	}
	if !p.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail payment in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PaymentStatusFailed
	p.FailedAt = &now
	p.AdminNotes = reason
	p.UpdatedAt = now

	p.AddDomainEvent(NewPaymentFailedEvent(p, reason))

	return nil
}

// Refund refunds part or all of a completed payment.
// When the cumulative refund reaches the full amount the payment
// becomes refunded, otherwise partially_refunded.
func (p *Payment) Refund(amountUSD decimal.Decimal, reason string) error {
	if amountUSD.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if p.Status != PaymentStatusCompleted && p.Status != PaymentStatusPartiallyRefunded {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund payment in %s status", p.Status))
	}

	remaining := p.AmountUSD.Sub(p.RefundedUSD)
	if amountUSD.GreaterThan(remaining) {
		return shared.NewDomainError("REFUND_EXCEEDS_AMOUNT", "Refund exceeds the remaining payment amount")
	}

	p.RefundedUSD = p.RefundedUSD.Add(amountUSD)
	if p.RefundedUSD.Equal(p.AmountUSD) {
		p.Status = PaymentStatusRefunded
	} else {
		p.Status = PaymentStatusPartiallyRefunded
	}
	if reason != "" {
		p.AdminNotes = reason
	}
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewPaymentRefundedEvent(p, amountUSD))

	return nil
}

// AttachReceipt records the URL of the customer's uploaded receipt image
func (p *Payment) AttachReceipt(url string) error {
	if url == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt URL cannot be empty")
	}
	p.ReceiptImageURL = url
	p.UpdatedAt = time.Now()
	return nil
}

// SetPayerInfo records who made the transfer, when different from the customer
func (p *Payment) SetPayerInfo(name, phone string) {
	p.PayerName = name
	p.PayerPhone = phone
	p.UpdatedAt = time.Now()
}

// IsPending returns true if the payment awaits verification
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsCompleted returns true if the payment was verified
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
