package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/domain/payment"
	"github.com/floresya/backend/internal/domain/shared"
	"github.com/floresya/backend/internal/domain/shared/valueobject"
)

// MockPaymentRepository is a mock implementation of payment.Repository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[payment.Payment], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[payment.Payment]), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) CountByStatus(ctx context.Context, status payment.PaymentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockMethodRepository is a mock implementation of payment.MethodRepository
type MockMethodRepository struct {
	mock.Mock
}

func (m *MockMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Method, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Method), args.Error(1)
}

func (m *MockMethodRepository) FindByCode(ctx context.Context, code string) (*payment.Method, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Method), args.Error(1)
}

func (m *MockMethodRepository) FindActive(ctx context.Context) ([]payment.Method, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Method), args.Error(1)
}

func (m *MockMethodRepository) FindAll(ctx context.Context) ([]payment.Method, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Method), args.Error(1)
}

func (m *MockMethodRepository) Save(ctx context.Context, method *payment.Method) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMethodRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[order.Order]), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[order.Order]), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.OrderStatus, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[order.Order]), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, filter shared.Filter) ([]order.StatusCount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusCount), args.Error(1)
}

func (m *MockOrderRepository) Revenue(ctx context.Context, filter shared.Filter) (*order.RevenueTotals, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.RevenueTotals), args.Error(1)
}

func (m *MockOrderRepository) TopProducts(ctx context.Context, filter shared.Filter, limit int) ([]order.TopProduct, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.TopProduct), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func testMethod(t *testing.T) *payment.Method {
	t.Helper()
	m, err := payment.NewMethod("Pago Móvil Banesco", "pago_movil", payment.MethodTypeMobilePayment, "0134 / V-12345678 / 0412-1234567")
	require.NoError(t, err)
	return m
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	rate := decimal.NewFromFloat(36.50)
	item, err := order.NewOrderItem(uuid.Nil, uuid.New(), "Ramo Tricolor", "", 2, valueobject.NewMoneyUSDFromFloat(29.99), rate)
	require.NoError(t, err)

	o, err := order.NewOrder("FY-2026-00077", nil, order.CustomerInfo{
		Name:            "María Pérez",
		Email:           "maria@example.com",
		Phone:           "+58 412 1234567",
		DeliveryAddress: "Av. Francisco de Miranda",
		DeliveryCity:    "Caracas",
	}, []order.OrderItem{*item}, valueobject.NewMoneyUSDFromFloat(7), rate)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func confirmRequest() ConfirmPaymentRequest {
	return ConfirmPaymentRequest{
		PaymentMethodCode: "pago_movil",
		ReferenceNumber:   "0412345678901234",
	}
}

func TestPaymentService_Confirm(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	methodRepo := new(MockMethodRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, methodRepo, orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	method := testMethod(t)

	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("FindPendingByOrder", mock.Anything, o.ID).Return(nil, nil)
	methodRepo.On("FindByCode", mock.Anything, "pago_movil").Return(method, nil)
	paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.Payment")).Return(nil)
	orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

	resp, err := service.Confirm(context.Background(), o.ID, confirmRequest(), nil)
	require.NoError(t, err)

	// Payment snapshots the order amounts
	assert.True(t, resp.AmountUSD.Equal(o.TotalUSD))
	assert.True(t, resp.AmountVES.Equal(o.TotalVES))
	assert.True(t, resp.CurrencyRate.Equal(o.CurrencyRate))
	assert.Equal(t, "pending", resp.Status)

	// Order moved to verified
	assert.Equal(t, order.OrderStatusVerified, o.Status)

	paymentRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestPaymentService_Confirm_OrderNotPending(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	methodRepo := new(MockMethodRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, methodRepo, orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	require.NoError(t, o.Verify("", nil))

	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := service.Confirm(context.Background(), o.ID, confirmRequest(), nil)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestPaymentService_Confirm_RejectPolicy(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	methodRepo := new(MockMethodRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, methodRepo, orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	existing, err := payment.NewPayment(o.ID, testMethod(t), o.TotalUSD, o.TotalVES, o.CurrencyRate, "REF-EXISTING", nil)
	require.NoError(t, err)

	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("FindPendingByOrder", mock.Anything, o.ID).Return(existing, nil)

	_, err = service.Confirm(context.Background(), o.ID, confirmRequest(), nil)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PAYMENT_ALREADY_REPORTED", domainErr.Code)
}

func TestPaymentService_Confirm_AppendPolicy(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	methodRepo := new(MockMethodRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, methodRepo, orderRepo, ReconfirmAppend)

	o := pendingOrder(t)
	existing, err := payment.NewPayment(o.ID, testMethod(t), o.TotalUSD, o.TotalVES, o.CurrencyRate, "REF-EXISTING", nil)
	require.NoError(t, err)

	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("FindPendingByOrder", mock.Anything, o.ID).Return(existing, nil)
	methodRepo.On("FindByCode", mock.Anything, "pago_movil").Return(testMethod(t), nil)
	paymentRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

	resp, err := service.Confirm(context.Background(), o.ID, confirmRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "0412345678901234", resp.ReferenceNumber)
}

func TestPaymentService_Confirm_MethodNotFound(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	methodRepo := new(MockMethodRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, methodRepo, orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("FindPendingByOrder", mock.Anything, o.ID).Return(nil, nil)
	methodRepo.On("FindByCode", mock.Anything, "pago_movil").Return(nil, shared.ErrNotFound)

	_, err := service.Confirm(context.Background(), o.ID, confirmRequest(), nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentService_Complete(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo, new(MockMethodRepository), new(MockOrderRepository), ReconfirmReject)

	p, err := payment.NewPayment(uuid.New(), testMethod(t), decimal.NewFromInt(50), decimal.NewFromInt(1825), decimal.NewFromFloat(36.5), "REF-1", nil)
	require.NoError(t, err)
	p.ClearDomainEvents()

	paymentRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	paymentRepo.On("SaveWithLock", mock.Anything, p).Return(nil)

	resp, err := service.Complete(context.Background(), p.ID, CompletePaymentRequest{AdminNotes: "Bank confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestPaymentService_Confirm_LockConflictPropagates(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	methodRepo := new(MockMethodRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, methodRepo, orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("FindPendingByOrder", mock.Anything, o.ID).Return(nil, shared.ErrNotFound)
	methodRepo.On("FindByCode", mock.Anything, "pago_movil").Return(testMethod(t), nil)
	paymentRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("SaveWithLock", mock.Anything, o).
		Return(shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user"))

	_, err := service.Confirm(context.Background(), o.ID, confirmRequest(), nil)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
}

func TestPaymentService_Fail_ReturnsOrderToPending(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, new(MockMethodRepository), orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	require.NoError(t, o.Verify("Payment reported", nil))
	o.ClearDomainEvents()

	p, err := payment.NewPayment(o.ID, testMethod(t), o.TotalUSD, o.TotalVES, o.CurrencyRate, "REF-BAD", nil)
	require.NoError(t, err)
	p.ClearDomainEvents()

	paymentRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("SaveWithLock", mock.Anything, p).Return(nil)
	orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

	resp, err := service.Fail(context.Background(), p.ID, FailPaymentRequest{Reason: "Reference not found at bank"})
	require.NoError(t, err)
	assert.Equal(t, "failed", resp.Status)

	// The order is back in line for a new payment report
	assert.Equal(t, order.OrderStatusPending, o.Status)
	assert.Nil(t, o.VerifiedAt)
	last := o.StatusHistory[len(o.StatusHistory)-1]
	assert.Equal(t, order.OrderStatusPending, last.NewStatus)
	assert.Equal(t, "Payment rejected: Reference not found at bank", last.Notes)
	orderRepo.AssertExpectations(t)
}

func TestPaymentService_Fail_OrderAlreadyMovedOn(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	orderRepo := new(MockOrderRepository)
	service := NewPaymentService(paymentRepo, new(MockMethodRepository), orderRepo, ReconfirmReject)

	o := pendingOrder(t)
	require.NoError(t, o.Verify("", nil))
	require.NoError(t, o.TransitionTo(order.OrderStatusPreparing, "", nil))
	o.ClearDomainEvents()

	p, err := payment.NewPayment(o.ID, testMethod(t), o.TotalUSD, o.TotalVES, o.CurrencyRate, "REF-LATE", nil)
	require.NoError(t, err)
	p.ClearDomainEvents()

	paymentRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	paymentRepo.On("SaveWithLock", mock.Anything, p).Return(nil)

	resp, err := service.Fail(context.Background(), p.ID, FailPaymentRequest{Reason: "Wrong amount"})
	require.NoError(t, err)
	assert.Equal(t, "failed", resp.Status)

	// An order already in preparation is left alone
	assert.Equal(t, order.OrderStatusPreparing, o.Status)
	orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPaymentService_Refund(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo, new(MockMethodRepository), new(MockOrderRepository), ReconfirmReject)

	p, err := payment.NewPayment(uuid.New(), testMethod(t), decimal.NewFromInt(50), decimal.NewFromInt(1825), decimal.NewFromFloat(36.5), "REF-1", nil)
	require.NoError(t, err)
	require.NoError(t, p.Complete(""))
	p.ClearDomainEvents()

	paymentRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	paymentRepo.On("SaveWithLock", mock.Anything, p).Return(nil)

	resp, err := service.Refund(context.Background(), p.ID, RefundPaymentRequest{AmountUSD: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, "partially_refunded", resp.Status)
	assert.True(t, resp.RefundedUSD.Equal(decimal.NewFromInt(20)))
}

func TestPaymentService_ListByOrder_EmptyIsNotFound(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo, new(MockMethodRepository), new(MockOrderRepository), ReconfirmReject)

	orderID := uuid.New()
	paymentRepo.On("FindByOrder", mock.Anything, orderID).Return([]payment.Payment{}, nil)

	_, err := service.ListByOrder(context.Background(), orderID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentService_List_FiltersApplied(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(paymentRepo, new(MockMethodRepository), new(MockOrderRepository), ReconfirmReject)

	status := payment.PaymentStatusPending
	expected := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]interface{}{"status": "pending"},
	}
	page := shared.NewPaginated([]payment.Payment{}, 0, 1, 20)
	paymentRepo.On("FindAll", mock.Anything, expected).Return(&page, nil)

	items, total, err := service.List(context.Background(), PaymentListFilter{Status: &status})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), total)
	paymentRepo.AssertExpectations(t)
}

func TestPaymentService_CreateMethod_DuplicateCode(t *testing.T) {
	methodRepo := new(MockMethodRepository)
	service := NewPaymentService(new(MockPaymentRepository), methodRepo, new(MockOrderRepository), ReconfirmReject)

	methodRepo.On("ExistsByCode", mock.Anything, "zelle").Return(true, nil)

	_, err := service.CreateMethod(context.Background(), CreateMethodRequest{
		Name: "Zelle", Code: "zelle", Type: "zelle",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}
