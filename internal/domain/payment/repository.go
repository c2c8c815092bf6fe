package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/shared"
)

// Repository defines the interface for payment persistence.
// Payments are never deleted.
type Repository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrder finds all payments recorded for an order, newest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error)

	// FindPendingByOrder finds the pending payment for an order, if any
	FindPendingByOrder(ctx context.Context, orderID uuid.UUID) (*Payment, error)

	// FindAll finds payments with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Payment], error)

	// Save creates or updates a payment
	Save(ctx context.Context, p *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *Payment) error

	// CountByStatus counts payments in a given status
	CountByStatus(ctx context.Context, status PaymentStatus) (int64, error)
}

// MethodRepository defines the interface for payment method persistence
type MethodRepository interface {
	// FindByID finds a payment method by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Method, error)

	// FindByCode finds a payment method by its unique code
	FindByCode(ctx context.Context, code string) (*Method, error)

	// FindActive lists active methods ordered by display order
	FindActive(ctx context.Context) ([]Method, error)

	// FindAll lists all methods including inactive ones
	FindAll(ctx context.Context) ([]Method, error)

	// Save creates or updates a payment method
	Save(ctx context.Context, m *Method) error

	// Delete soft deletes a payment method
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a method code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
