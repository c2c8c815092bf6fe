package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/domain/shared"
	"github.com/floresya/backend/internal/domain/shared/valueobject"
)

// Pricing provides the two settings every checkout needs.
// Both fail fast when the underlying setting is missing or corrupted.
type Pricing interface {
	GetDeliveryCost(ctx context.Context) (decimal.Decimal, error)
	GetBCVRate(ctx context.Context) (decimal.Decimal, error)
}

// OrderService handles order business operations
type OrderService struct {
	orderRepo      order.Repository
	productRepo    catalog.ProductRepository
	pricing        Pricing
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, productRepo catalog.ProductRepository, pricing Pricing) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		pricing:     pricing,
	}
}

// SetEventPublisher sets the event publisher for notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create handles checkout: it resolves products, snapshots prices,
// applies the delivery cost and BCV rate from settings, and creates the
// order in pending status. Stock is deducted for each line.
func (s *OrderService) Create(ctx context.Context, userID *uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	rate, err := s.pricing.GetBCVRate(ctx)
	if err != nil {
		return nil, err
	}
	deliveryCost, err := s.pricing.GetDeliveryCost(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Items, rate)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	customer := order.CustomerInfo{
		Name:             req.CustomerName,
		Email:            req.CustomerEmail,
		Phone:            req.CustomerPhone,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryCity:     req.DeliveryCity,
		DeliveryState:    req.DeliveryState,
		DeliveryDate:     req.DeliveryDate,
		DeliveryTimeSlot: req.DeliveryTimeSlot,
		DeliveryNotes:    req.DeliveryNotes,
		Notes:            req.Notes,
	}

	o, err := order.NewOrder(orderNumber, userID, customer, items, valueobject.NewMoneyUSD(deliveryCost), rate)
	if err != nil {
		return nil, err
	}

	// Deduct stock line by line; a failure aborts the checkout before
	// the order is persisted
	deducted := make([]CreateOrderItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		if err := s.productRepo.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			s.restoreStock(ctx, deducted)
			return nil, err
		}
		deducted = append(deducted, line)
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.restoreStock(ctx, deducted)
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) buildItems(ctx context.Context, lines []CreateOrderItemInput, rate decimal.Decimal) ([]order.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if seen[line.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once in the order")
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]order.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", line.ProductID))
		}
		if !product.CanFulfill(line.Quantity) {
			if !product.IsActive {
				return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", fmt.Sprintf("Product %s is not available", product.Name))
			}
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Not enough stock for %s", product.Name))
		}

		item, err := order.NewOrderItem(uuid.Nil, product.ID, product.Name, product.Summary, line.Quantity, valueobject.NewMoneyUSD(product.PriceUSD), rate)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, nil
}

func (s *OrderService) restoreStock(ctx context.Context, lines []CreateOrderItemInput) {
	for _, line := range lines {
		// Best effort: a failed restore leaves stock low, never oversold
		_ = s.productRepo.AdjustStock(ctx, line.ProductID, line.Quantity)
	}
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its public order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	result, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(result.Items), result.Total, nil
}

// ListByUser retrieves orders placed by a registered user
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	result, err := s.orderRepo.FindByUser(ctx, userID, s.toDomainFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	return ToOrderListItemResponses(result.Items), result.Total, nil
}

func (s *OrderService) toDomainFilter(filter OrderListFilter) shared.Filter {
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
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	if filter.MinTotalUSD != nil {
		domainFilter.Filters["min_total"] = *filter.MinTotalUSD
	}
	if filter.MaxTotalUSD != nil {
		domainFilter.Filters["max_total"] = *filter.MaxTotalUSD
	}

	return domainFilter
}

// Update changes the delivery details of an order that has not reached
// a terminal status. Fields left out of the request keep their value.
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	details := order.DeliveryDetails{
		Address:  o.DeliveryAddress,
		City:     o.DeliveryCity,
		State:    o.DeliveryState,
		Date:     o.DeliveryDate,
		TimeSlot: o.DeliveryTimeSlot,
		Notes:    o.DeliveryNotes,
	}
	if req.DeliveryAddress != nil {
		details.Address = *req.DeliveryAddress
	}
	if req.DeliveryCity != nil {
		details.City = *req.DeliveryCity
	}
	if req.DeliveryState != nil {
		details.State = *req.DeliveryState
	}
	if req.DeliveryDate != nil {
		details.Date = req.DeliveryDate
	}
	if req.DeliveryTimeSlot != nil {
		details.TimeSlot = *req.DeliveryTimeSlot
	}
	if req.DeliveryNotes != nil {
		details.Notes = *req.DeliveryNotes
	}

	if err := o.UpdateDeliveryDetails(details); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateStatus transitions an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest, changedBy *uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	target := order.OrderStatus(req.Status)
	if err := o.TransitionTo(target, req.Notes, changedBy); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order with a reason and restores product stock
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest, changedBy *uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(req.Reason, changedBy); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	for _, item := range o.Items {
		_ = s.productRepo.AdjustStock(ctx, item.ProductID, item.Quantity)
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		// Notifications are best effort and never fail the operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
