package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/order"
)

// CreateOrderItemInput represents one cart line at checkout.
// Only the product reference and quantity come from the client;
// prices are always resolved server-side.
type CreateOrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a checkout request
type CreateOrderRequest struct {
	CustomerName     string                 `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerEmail    string                 `json:"customer_email" binding:"required,email"`
	CustomerPhone    string                 `json:"customer_phone" binding:"required,min=7,max=30"`
	DeliveryAddress  string                 `json:"delivery_address" binding:"required,min=1,max=500"`
	DeliveryCity     string                 `json:"delivery_city" binding:"required,min=1,max=100"`
	DeliveryState    string                 `json:"delivery_state" binding:"max=100"`
	DeliveryDate     *time.Time             `json:"delivery_date"`
	DeliveryTimeSlot string                 `json:"delivery_time_slot" binding:"max=50"`
	DeliveryNotes    string                 `json:"delivery_notes" binding:"max=500"`
	Notes            string                 `json:"notes" binding:"max=1000"`
	Items            []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest edits delivery details on a live order.
// Nil fields keep their current value.
type UpdateOrderRequest struct {
	DeliveryAddress  *string    `json:"delivery_address" binding:"omitempty,min=1,max=500"`
	DeliveryCity     *string    `json:"delivery_city" binding:"omitempty,min=1,max=100"`
	DeliveryState    *string    `json:"delivery_state" binding:"omitempty,max=100"`
	DeliveryDate     *time.Time `json:"delivery_date"`
	DeliveryTimeSlot *string    `json:"delivery_time_slot" binding:"omitempty,max=50"`
	DeliveryNotes    *string    `json:"delivery_notes" binding:"omitempty,max=500"`
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"max=500"`
}

// CancelOrderRequest represents a cancellation request
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents list filtering options
type OrderListFilter struct {
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
	Search      string
	Status      *order.OrderStatus
	UserID      *uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
	MinTotalUSD *decimal.Decimal
	MaxTotalUSD *decimal.Decimal
}

// OrderItemResponse represents an order line item in responses
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSummary string          `json:"product_summary,omitempty"`
	UnitPriceUSD   decimal.Decimal `json:"unit_price_usd"`
	UnitPriceVES   decimal.Decimal `json:"unit_price_ves"`
	Quantity       int             `json:"quantity"`
	SubtotalUSD    decimal.Decimal `json:"subtotal_usd"`
	SubtotalVES    decimal.Decimal `json:"subtotal_ves"`
}

// StatusChangeResponse represents one entry in the status history
type StatusChangeResponse struct {
	OldStatus *string    `json:"old_status"`
	NewStatus string     `json:"new_status"`
	Notes     string     `json:"notes,omitempty"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// OrderResponse represents a full order in responses
type OrderResponse struct {
	ID               uuid.UUID              `json:"id"`
	OrderNumber      string                 `json:"order_number"`
	UserID           *uuid.UUID             `json:"user_id,omitempty"`
	CustomerName     string                 `json:"customer_name"`
	CustomerEmail    string                 `json:"customer_email"`
	CustomerPhone    string                 `json:"customer_phone"`
	DeliveryAddress  string                 `json:"delivery_address"`
	DeliveryCity     string                 `json:"delivery_city"`
	DeliveryState    string                 `json:"delivery_state,omitempty"`
	DeliveryDate     *time.Time             `json:"delivery_date,omitempty"`
	DeliveryTimeSlot string                 `json:"delivery_time_slot,omitempty"`
	DeliveryNotes    string                 `json:"delivery_notes,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	Items            []OrderItemResponse    `json:"items"`
	StatusHistory    []StatusChangeResponse `json:"status_history,omitempty"`
	SubtotalUSD      decimal.Decimal        `json:"subtotal_usd"`
	DeliveryCostUSD  decimal.Decimal        `json:"delivery_cost_usd"`
	TotalUSD         decimal.Decimal        `json:"total_usd"`
	TotalVES         decimal.Decimal        `json:"total_ves"`
	CurrencyRate     decimal.Decimal        `json:"currency_rate"`
	Status           string                 `json:"status"`
	StatusBucket     string                 `json:"status_bucket"`
	CancelReason     string                 `json:"cancel_reason,omitempty"`
	Version          int                    `json:"version"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// OrderListItemResponse is a compact order representation for lists
type OrderListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	DeliveryCity string          `json:"delivery_city"`
	ItemCount    int             `json:"item_count"`
	TotalUSD     decimal.Decimal `json:"total_usd"`
	TotalVES     decimal.Decimal `json:"total_ves"`
	Status       string          `json:"status"`
	StatusBucket string          `json:"status_bucket"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ProductSummary: item.ProductSummary,
			UnitPriceUSD:   item.UnitPriceUSD,
			UnitPriceVES:   item.UnitPriceVES,
			Quantity:       item.Quantity,
			SubtotalUSD:    item.SubtotalUSD,
			SubtotalVES:    item.SubtotalVES,
		}
	}

	history := make([]StatusChangeResponse, len(o.StatusHistory))
	for i, change := range o.StatusHistory {
		var oldStatus *string
		if change.OldStatus != nil {
			s := change.OldStatus.String()
			oldStatus = &s
		}
		history[i] = StatusChangeResponse{
			OldStatus: oldStatus,
			NewStatus: change.NewStatus.String(),
			Notes:     change.Notes,
			ChangedBy: change.ChangedBy,
			CreatedAt: change.CreatedAt,
		}
	}

	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		DeliveryAddress:  o.DeliveryAddress,
		DeliveryCity:     o.DeliveryCity,
		DeliveryState:    o.DeliveryState,
		DeliveryDate:     o.DeliveryDate,
		DeliveryTimeSlot: o.DeliveryTimeSlot,
		DeliveryNotes:    o.DeliveryNotes,
		Notes:            o.Notes,
		Items:            items,
		StatusHistory:    history,
		SubtotalUSD:      o.SubtotalUSD,
		DeliveryCostUSD:  o.DeliveryCostUSD,
		TotalUSD:         o.TotalUSD,
		TotalVES:         o.TotalVES,
		CurrencyRate:     o.CurrencyRate,
		Status:           o.Status.String(),
		StatusBucket:     string(o.Status.Bucket()),
		CancelReason:     o.CancelReason,
		Version:          o.Version,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderListItemResponses converts domain orders to list item DTOs
func ToOrderListItemResponses(orders []order.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		responses[i] = OrderListItemResponse{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			CustomerName: o.CustomerName,
			DeliveryCity: o.DeliveryCity,
			ItemCount:    len(o.Items),
			TotalUSD:     o.TotalUSD,
			TotalVES:     o.TotalVES,
			Status:       o.Status.String(),
			StatusBucket: string(o.Status.Bucket()),
			CreatedAt:    o.CreatedAt,
		}
	}
	return responses
}
