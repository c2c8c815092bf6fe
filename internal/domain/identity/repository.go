package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/shared"
)

// Repository defines the interface for user persistence
type Repository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users with role/active filters and pagination
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[User], error)

	// Save creates or updates a user
	Save(ctx context.Context, u *User) error

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByRole counts active users with a given role
	CountByRole(ctx context.Context, role Role) (int64, error)
}
