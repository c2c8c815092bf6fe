package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/payment"
)

// ConfirmPaymentRequest reports a customer payment for a pending order
type ConfirmPaymentRequest struct {
	PaymentMethodCode string `json:"payment_method_code" binding:"required"`
	ReferenceNumber   string `json:"reference_number" binding:"required,min=1,max=100"`
	ReceiptImageURL   string `json:"receipt_image_url" binding:"omitempty,url,max=500"`
	PayerName         string `json:"payer_name" binding:"max=200"`
	PayerPhone        string `json:"payer_phone" binding:"max=30"`
}

// CompletePaymentRequest verifies a pending payment
type CompletePaymentRequest struct {
	AdminNotes string `json:"admin_notes" binding:"max=500"`
}

// FailPaymentRequest marks a pending payment as failed
type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RefundPaymentRequest refunds part or all of a completed payment
type RefundPaymentRequest struct {
	AmountUSD decimal.Decimal `json:"amount_usd" binding:"required"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// CreateMethodRequest creates a payment method
type CreateMethodRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Type         string `json:"type" binding:"required"`
	AccountInfo  string `json:"account_info" binding:"max=1000"`
	Instructions string `json:"instructions" binding:"max=1000"`
}

// UpdateMethodRequest updates an existing payment method
type UpdateMethodRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	AccountInfo  string `json:"account_info" binding:"max=1000"`
	Instructions string `json:"instructions" binding:"max=1000"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
	IsActive     *bool  `json:"is_active"`
}

// PaymentListFilter contains filtering options for listing payments
type PaymentListFilter struct {
	Status    *payment.PaymentStatus
	OrderID   *uuid.UUID
	MethodID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}

// PaymentResponse represents a payment record in responses
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	MethodID        uuid.UUID       `json:"method_id"`
	MethodName      string          `json:"method_name"`
	AmountUSD       decimal.Decimal `json:"amount_usd"`
	AmountVES       decimal.Decimal `json:"amount_ves"`
	CurrencyRate    decimal.Decimal `json:"currency_rate"`
	RefundedUSD     decimal.Decimal `json:"refunded_usd"`
	Status          string          `json:"status"`
	ReferenceNumber string          `json:"reference_number"`
	ReceiptImageURL string          `json:"receipt_image_url,omitempty"`
	PayerName       string          `json:"payer_name,omitempty"`
	PayerPhone      string          `json:"payer_phone,omitempty"`
	AdminNotes      string          `json:"admin_notes,omitempty"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MethodResponse represents a payment method in responses
type MethodResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Type         string    `json:"type"`
	AccountInfo  string    `json:"account_info,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		OrderID:         p.OrderID,
		MethodID:        p.MethodID,
		MethodName:      p.MethodName,
		AmountUSD:       p.AmountUSD,
		AmountVES:       p.AmountVES,
		CurrencyRate:    p.CurrencyRate,
		RefundedUSD:     p.RefundedUSD,
		Status:          p.Status.String(),
		ReferenceNumber: p.ReferenceNumber,
		ReceiptImageURL: p.ReceiptImageURL,
		PayerName:       p.PayerName,
		PayerPhone:      p.PayerPhone,
		AdminNotes:      p.AdminNotes,
		PaymentDate:     p.PaymentDate,
		CompletedAt:     p.CompletedAt,
		CreatedAt:       p.CreatedAt,
	}
}

// ToPaymentResponses converts domain payments to response DTOs
func ToPaymentResponses(payments []payment.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// ToMethodResponse converts a domain method to a response DTO
func ToMethodResponse(m *payment.Method) MethodResponse {
	return MethodResponse{
		ID:           m.ID,
		Name:         m.Name,
		Code:         m.Code,
		Type:         string(m.Type),
		AccountInfo:  m.AccountInfo,
		Instructions: m.Instructions,
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
	}
}

// ToMethodResponses converts domain methods to response DTOs
func ToMethodResponses(methods []payment.Method) []MethodResponse {
	responses := make([]MethodResponse, len(methods))
	for i := range methods {
		responses[i] = ToMethodResponse(&methods[i])
	}
	return responses
}
