package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/shared"
)

// OccasionRepository defines the interface for occasion persistence
type OccasionRepository interface {
	// FindByID finds an occasion by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Occasion, error)

	// FindBySlug finds an occasion by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Occasion, error)

	// FindAll lists occasions ordered by display order.
	// Deactivated occasions are excluded unless includeDeactivated is set.
	FindAll(ctx context.Context, includeDeactivated bool) ([]Occasion, error)

	// Save creates or updates an occasion
	Save(ctx context.Context, o *Occasion) error

	// ExistsBySlug checks if a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID with its occasion tags
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by ID, used to price a checkout
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products with filtering, accent-insensitive search
	// and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Product], error)

	// FindByOccasion finds active products tagged with an occasion
	FindByOccasion(ctx context.Context, occasionID uuid.UUID, filter shared.Filter) (*shared.Paginated[Product], error)

	// FindFeatured lists featured products ordered by carousel order
	FindFeatured(ctx context.Context) ([]Product, error)

	// Save creates or updates a product with its occasion tags
	Save(ctx context.Context, p *Product) error

	// AdjustStock atomically applies a stock delta, failing if the
	// result would be negative
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}
