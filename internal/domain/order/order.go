package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/shared"
	"github.com/floresya/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Created, awaiting payment confirmation
	OrderStatusVerified  OrderStatus = "verified"  // Payment reference received and verified
	OrderStatusPreparing OrderStatus = "preparing" // Arrangement being prepared
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Delivered to recipient
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled, excluded from revenue
)

// StatusBucket groups detailed statuses into reporting buckets
type StatusBucket string

const (
	BucketPending    StatusBucket = "pending"
	BucketProcessing StatusBucket = "processing"
	BucketCompleted  StatusBucket = "completed"
	BucketCancelled  StatusBucket = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusVerified, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusVerified || target == OrderStatusCancelled
	case OrderStatusVerified:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// Bucket maps the status to its reporting bucket.
// All statistics and dashboards group orders through this single mapping.
func (s OrderStatus) Bucket() StatusBucket {
	switch s {
	case OrderStatusPending:
		return BucketPending
	case OrderStatusVerified, OrderStatusPreparing, OrderStatusShipped:
		return BucketProcessing
	case OrderStatusDelivered:
		return BucketCompleted
	case OrderStatusCancelled:
		return BucketCancelled
	}
	return BucketPending
}

// IsTerminal returns true if the status is terminal (delivered or cancelled)
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Business limits enforced at order creation
var (
	MinOrderTotalUSD = decimal.NewFromInt(1)
	MaxOrderTotalUSD = decimal.NewFromInt(10000)
)

// MaxOrderItems is the maximum number of line items per order
const MaxOrderItems = 50

// OrderItem represents a line item snapshot in an order.
// Product name and prices are copied at checkout so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName    string          `gorm:"not null" json:"product_name"`
	ProductSummary string          `json:"product_summary"`
	UnitPriceUSD   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price_usd"`
	UnitPriceVES   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price_ves"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	SubtotalUSD    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal_usd"`
	SubtotalVES    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal_ves"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewOrderItem creates a new order line item from a product snapshot
func NewOrderItem(orderID, productID uuid.UUID, productName, productSummary string, quantity int, unitPrice valueobject.Money, rate decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	priceVES, err := unitPrice.ConvertToVES(rate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	now := time.Now()
	qty := decimal.NewFromInt(int64(quantity))

	return &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    productName,
		ProductSummary: productSummary,
		UnitPriceUSD:   unitPrice.Amount(),
		UnitPriceVES:   priceVES.Amount(),
		Quantity:       quantity,
		SubtotalUSD:    unitPrice.Amount().Mul(qty).Round(2),
		SubtotalVES:    priceVES.Amount().Mul(qty).Round(2),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// StatusChange records one transition in the order's status history
type StatusChange struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"order_id"`
	OldStatus *OrderStatus `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus OrderStatus  `gorm:"type:varchar(20);not null" json:"new_status"`
	Notes     string       `json:"notes"`
	ChangedBy *uuid.UUID   `gorm:"type:uuid" json:"changed_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// Order represents a customer order aggregate root.
// It carries a full pricing snapshot (USD and VES at the checkout-time
// BCV rate) and an append-only status history.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber      string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID           *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	CustomerName     string          `gorm:"not null" json:"customer_name"`
	CustomerEmail    string          `gorm:"not null" json:"customer_email"`
	CustomerPhone    string          `gorm:"not null" json:"customer_phone"`
	DeliveryAddress  string          `gorm:"not null" json:"delivery_address"`
	DeliveryCity     string          `gorm:"not null" json:"delivery_city"`
	DeliveryState    string          `json:"delivery_state"`
	DeliveryDate     *time.Time      `json:"delivery_date"`
	DeliveryTimeSlot string          `json:"delivery_time_slot"`
	DeliveryNotes    string          `json:"delivery_notes"`
	Notes            string          `json:"notes"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	StatusHistory    []StatusChange  `gorm:"foreignKey:OrderID" json:"status_history"`
	SubtotalUSD      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal_usd"`
	DeliveryCostUSD  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_cost_usd"`
	TotalUSD         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_usd"`
	TotalVES         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_ves"`
	CurrencyRate     decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"currency_rate"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CancelReason     string          `json:"cancel_reason"`
	VerifiedAt       *time.Time      `json:"verified_at"`
	ShippedAt        *time.Time      `json:"shipped_at"`
	DeliveredAt      *time.Time      `json:"delivered_at"`
	CancelledAt      *time.Time      `json:"cancelled_at"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// CustomerInfo groups the customer and delivery fields required at checkout
type CustomerInfo struct {
	Name             string
	Email            string
	Phone            string
	DeliveryAddress  string
	DeliveryCity     string
	DeliveryState    string
	DeliveryDate     *time.Time
	DeliveryTimeSlot string
	DeliveryNotes    string
	Notes            string
}

// Validate checks the required customer fields
func (c CustomerInfo) Validate() error {
	if c.Name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name is required")
	}
	if c.Email == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_EMAIL", "Customer email is required")
	}
	if c.Phone == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_PHONE", "Customer phone is required")
	}
	if c.DeliveryAddress == "" {
		return shared.NewDomainError("INVALID_DELIVERY_ADDRESS", "Delivery address is required")
	}
	if c.DeliveryCity == "" {
		return shared.NewDomainError("INVALID_DELIVERY_CITY", "Delivery city is required")
	}
	if c.DeliveryDate != nil {
		today := time.Now().Truncate(24 * time.Hour)
		if c.DeliveryDate.Before(today) {
			return shared.NewDomainError("INVALID_DELIVERY_DATE", "Delivery date cannot be in the past")
		}
	}
	return nil
}

// NewOrder creates a new order in pending status from a priced item snapshot.
// Items, delivery cost and the BCV exchange rate are fixed at creation time;
// orders are never edited after checkout, only transitioned.
func NewOrder(orderNumber string, userID *uuid.UUID, customer CustomerInfo, items []OrderItem, deliveryCost valueobject.Money, rate decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must have at least one item")
	}
	if len(items) > MaxOrderItems {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", fmt.Sprintf("Order cannot exceed %d items", MaxOrderItems))
	}
	if deliveryCost.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_DELIVERY_COST", "Delivery cost cannot be negative")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.SubtotalUSD)
	}
	total := subtotal.Add(deliveryCost.Amount()).Round(2)

	if total.LessThan(MinOrderTotalUSD) {
		return nil, shared.NewDomainError("ORDER_TOTAL_TOO_LOW", fmt.Sprintf("Order total must be at least $%s", MinOrderTotalUSD))
	}
	if total.GreaterThan(MaxOrderTotalUSD) {
		return nil, shared.NewDomainError("ORDER_TOTAL_TOO_HIGH", fmt.Sprintf("Order total cannot exceed $%s", MaxOrderTotalUSD))
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
		DeliveryAddress:   customer.DeliveryAddress,
		DeliveryCity:      customer.DeliveryCity,
		DeliveryState:     customer.DeliveryState,
		DeliveryDate:      customer.DeliveryDate,
		DeliveryTimeSlot:  customer.DeliveryTimeSlot,
		DeliveryNotes:     customer.DeliveryNotes,
		Notes:             customer.Notes,
		Items:             items,
		SubtotalUSD:       subtotal,
		DeliveryCostUSD:   deliveryCost.Amount(),
		TotalUSD:          total,
		TotalVES:          total.Mul(rate).Round(2),
		CurrencyRate:      rate,
		Status:            OrderStatusPending,
	}

	for idx := range o.Items {
		o.Items[idx].OrderID = o.ID
	}
	o.recordStatusChange(nil, OrderStatusPending, "Order created", nil)

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// TransitionTo moves the order to the target status, recording the change
// in the history. Cancellation must go through Cancel so a reason is captured.
func (o *Order) TransitionTo(target OrderStatus, notes string, changedBy *uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if target == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Use cancel with a reason to cancel an order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusVerified:
		o.VerifiedAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}

	o.recordStatusChange(&from, target, notes, changedBy)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	if target == OrderStatusDelivered {
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	}

	return nil
}

// Verify marks the order as payment-verified
func (o *Order) Verify(notes string, changedBy *uuid.UUID) error {
	return o.TransitionTo(OrderStatusVerified, notes, changedBy)
}

// Cancel cancels the order with a required reason.
// Allowed from any non-terminal status.
func (o *Order) Cancel(reason string, changedBy *uuid.UUID) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	from := o.Status
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.recordStatusChange(&from, OrderStatusCancelled, reason, changedBy)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, OrderStatusCancelled))
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// ReturnToPending puts a verified order back in line for a new payment
// report, recording the regression in the history. Used when the
// reported payment turns out to be invalid during verification.
func (o *Order) ReturnToPending(notes string, changedBy *uuid.UUID) error {
	if o.Status != OrderStatusVerified {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot return order in %s status to pending", o.Status))
	}

	from := o.Status
	o.Status = OrderStatusPending
	o.VerifiedAt = nil
	o.UpdatedAt = time.Now()

	o.recordStatusChange(&from, OrderStatusPending, notes, changedBy)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, OrderStatusPending))

	return nil
}

func (o *Order) recordStatusChange(from *OrderStatus, to OrderStatus, notes string, changedBy *uuid.UUID) {
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:        uuid.New(),
		OrderID:   o.ID,
		OldStatus: from,
		NewStatus: to,
		Notes:     notes,
		ChangedBy: changedBy,
		CreatedAt: time.Now(),
	})
}

// DeliveryDetails holds the fields editable after checkout. Pricing,
// items and status are never touched through this path.
type DeliveryDetails struct {
	Address  string
	City     string
	State    string
	Date     *time.Time
	TimeSlot string
	Notes    string
}

// UpdateDeliveryDetails edits the delivery fields of a live order.
// Terminal orders cannot be edited.
func (o *Order) UpdateDeliveryDetails(details DeliveryDetails) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit an order in %s status", o.Status))
	}
	if details.Address == "" {
		return shared.NewDomainError("INVALID_DELIVERY_ADDRESS", "Delivery address is required")
	}
	if details.City == "" {
		return shared.NewDomainError("INVALID_DELIVERY_CITY", "Delivery city is required")
	}

	o.DeliveryAddress = details.Address
	o.DeliveryCity = details.City
	o.DeliveryState = details.State
	o.DeliveryDate = details.Date
	o.DeliveryTimeSlot = details.TimeSlot
	o.DeliveryNotes = details.Notes
	o.UpdatedAt = time.Now()
	return nil
}

// CountsTowardRevenue returns true if the order is included in sales
// statistics. Cancelled orders never count.
func (o *Order) CountsTowardRevenue() bool {
	return o.Status != OrderStatusCancelled
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// GetTotalMoney returns the USD total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalUSD)
}

// IsPending returns true if the order awaits payment confirmation
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsVerified returns true if the order's payment was verified
func (o *Order) IsVerified() bool {
	return o.Status == OrderStatusVerified
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}
