package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/domain/payment"
	"github.com/floresya/backend/internal/domain/shared"
)

// ReconfirmPolicy controls what happens when a payment is reported for
// an order that already has a pending payment record.
type ReconfirmPolicy string

const (
	// ReconfirmReject refuses the second confirmation outright
	ReconfirmReject ReconfirmPolicy = "reject"
	// ReconfirmAppend records the new payment alongside the old one,
	// leaving reconciliation to the admin
	ReconfirmAppend ReconfirmPolicy = "append"
)

// PaymentService handles payment confirmation and verification
type PaymentService struct {
	paymentRepo     payment.Repository
	methodRepo      payment.MethodRepository
	orderRepo       order.Repository
	reconfirmPolicy ReconfirmPolicy
	eventPublisher  shared.EventPublisher
	txManager       shared.TxManager
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo payment.Repository, methodRepo payment.MethodRepository, orderRepo order.Repository, reconfirmPolicy ReconfirmPolicy) *PaymentService {
	if reconfirmPolicy == "" {
		reconfirmPolicy = ReconfirmReject
	}
	return &PaymentService{
		paymentRepo:     paymentRepo,
		methodRepo:      methodRepo,
		orderRepo:       orderRepo,
		reconfirmPolicy: reconfirmPolicy,
	}
}

// SetEventPublisher sets the event publisher for notifications
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxManager sets the transaction manager used when a payment and
// its order must be written together
func (s *PaymentService) SetTxManager(tx shared.TxManager) {
	s.txManager = tx
}

func (s *PaymentService) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.Do(ctx, fn)
}

// Confirm records a customer payment report for a pending order.
// The order's amounts and rate are snapshotted into the payment record
// and the order moves to verified.
func (s *PaymentService) Confirm(ctx context.Context, orderID uuid.UUID, req ConfirmPaymentRequest, userID *uuid.UUID) (*PaymentResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsPending() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only pending orders can receive a payment confirmation")
	}

	if existing, err := s.paymentRepo.FindPendingByOrder(ctx, orderID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	} else if existing != nil && s.reconfirmPolicy == ReconfirmReject {
		return nil, shared.NewDomainError("PAYMENT_ALREADY_REPORTED", "A payment has already been reported for this order")
	}

	method, err := s.methodRepo.FindByCode(ctx, req.PaymentMethodCode)
	if err != nil {
		return nil, err
	}

	p, err := payment.NewPayment(o.ID, method, o.TotalUSD, o.TotalVES, o.CurrencyRate, req.ReferenceNumber, userID)
	if err != nil {
		return nil, err
	}
	if req.ReceiptImageURL != "" {
		if err := p.AttachReceipt(req.ReceiptImageURL); err != nil {
			return nil, err
		}
	}
	if req.PayerName != "" || req.PayerPhone != "" {
		p.SetPayerInfo(req.PayerName, req.PayerPhone)
	}

	if err := o.Verify("Payment reported: "+method.Name, userID); err != nil {
		return nil, err
	}

	// The payment record and the order's move to verified stand or
	// fall together; a lock conflict on the order must not leave an
	// orphan pending payment behind.
	if err := s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Save(ctx, p); err != nil {
			return err
		}
		return s.orderRepo.SaveWithLock(ctx, o)
	}); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)
	s.publishOrderEvents(ctx, o)

	response := ToPaymentResponse(p)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(p)
	return &response, nil
}

// ListByOrder retrieves the payments recorded for an order.
// An order with no payments yet is reported as not found.
func (s *PaymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, shared.ErrNotFound
	}
	return ToPaymentResponses(payments), nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.MethodID != nil {
		domainFilter.Filters["method_id"] = *filter.MethodID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	result, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPaymentResponses(result.Items), result.Total, nil
}

// Complete verifies a pending payment
func (s *PaymentService) Complete(ctx context.Context, id uuid.UUID, req CompletePaymentRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Complete(req.AdminNotes); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	response := ToPaymentResponse(p)
	return &response, nil
}

// Fail marks a pending payment as failed and returns the order to pending
// so the customer can report a new payment.
func (s *PaymentService) Fail(ctx context.Context, id uuid.UUID, req FailPaymentRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Fail(req.Reason); err != nil {
		return nil, err
	}

	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	orderRegressed := o.IsVerified()
	if orderRegressed {
		if err := o.ReturnToPending("Payment rejected: "+req.Reason, nil); err != nil {
			return nil, err
		}
	}

	if err := s.runInTx(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
			return err
		}
		if orderRegressed {
			return s.orderRepo.SaveWithLock(ctx, o)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)
	s.publishOrderEvents(ctx, o)

	response := ToPaymentResponse(p)
	return &response, nil
}

// Refund refunds part or all of a completed payment
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID, req RefundPaymentRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Refund(req.AmountUSD, req.Reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	response := ToPaymentResponse(p)
	return &response, nil
}

// ListActiveMethods lists the payment methods shown at checkout
func (s *PaymentService) ListActiveMethods(ctx context.Context) ([]MethodResponse, error) {
	methods, err := s.methodRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToMethodResponses(methods), nil
}

// ListAllMethods lists all payment methods including inactive ones
func (s *PaymentService) ListAllMethods(ctx context.Context) ([]MethodResponse, error) {
	methods, err := s.methodRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToMethodResponses(methods), nil
}

// CreateMethod creates a new payment method
func (s *PaymentService) CreateMethod(ctx context.Context, req CreateMethodRequest) (*MethodResponse, error) {
	exists, err := s.methodRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A payment method with this code already exists")
	}

	m, err := payment.NewMethod(req.Name, req.Code, payment.MethodType(req.Type), req.AccountInfo)
	if err != nil {
		return nil, err
	}
	if req.Instructions != "" {
		m.Instructions = req.Instructions
	}

	if err := s.methodRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	response := ToMethodResponse(m)
	return &response, nil
}

// UpdateMethod updates an existing payment method
func (s *PaymentService) UpdateMethod(ctx context.Context, id uuid.UUID, req UpdateMethodRequest) (*MethodResponse, error) {
	m, err := s.methodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := m.Update(req.Name, req.AccountInfo, req.Instructions, req.DisplayOrder); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			m.Activate()
		} else {
			m.Deactivate()
		}
	}

	if err := s.methodRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	response := ToMethodResponse(m)
	return &response, nil
}

// DeleteMethod soft deletes a payment method
func (s *PaymentService) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	if _, err := s.methodRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.methodRepo.Delete(ctx, id)
}

func (s *PaymentService) publishEvents(ctx context.Context, p *payment.Payment) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range p.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	p.ClearDomainEvents()
}

func (s *PaymentService) publishOrderEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
