package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/shared"
)

// StatusCount pairs a status with the number of orders in it
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// RevenueTotals aggregates order revenue for a period.
// Cancelled orders are excluded before aggregation.
type RevenueTotals struct {
	OrderCount int64           `json:"order_count"`
	TotalUSD   decimal.Decimal `json:"total_usd"`
	TotalVES   decimal.Decimal `json:"total_ves"`
}

// TopProduct is a product ranked by quantity sold
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	RevenueUSD  decimal.Decimal `json:"revenue_usd"`
}

// Repository defines the interface for order persistence.
// Orders are never deleted, only cancelled.
type Repository interface {
	// FindByID finds an order by ID with items and status history
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its public order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds orders with filtering, search and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)

	// FindByUser finds orders placed by a registered user
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// FindByStatus finds orders in a given status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) (*shared.Paginated[Order], error)

	// Save creates or updates an order with its items and history
	Save(ctx context.Context, o *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, o *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns per-status order counts for the filter set.
	// The filter composes the same way as in FindAll so dashboards and
	// listings always agree on what they count.
	CountByStatus(ctx context.Context, filter shared.Filter) ([]StatusCount, error)

	// Revenue aggregates revenue for the filter set, excluding cancelled orders
	Revenue(ctx context.Context, filter shared.Filter) (*RevenueTotals, error)

	// TopProducts ranks products by quantity sold for the filter set,
	// excluding cancelled orders
	TopProducts(ctx context.Context, filter shared.Filter, limit int) ([]TopProduct, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// GenerateOrderNumber generates the next sequential order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
