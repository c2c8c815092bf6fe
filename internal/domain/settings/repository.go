package settings

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for settings persistence
type Repository interface {
	// FindByID finds a setting by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Setting, error)

	// FindByKey finds an active setting by key
	FindByKey(ctx context.Context, key string) (*Setting, error)

	// FindAll lists active settings; publicOnly restricts to settings
	// safe to expose to anonymous clients
	FindAll(ctx context.Context, publicOnly bool) ([]Setting, error)

	// Save creates or updates a setting
	Save(ctx context.Context, s *Setting) error

	// ExistsByKey checks if a key is already in use
	ExistsByKey(ctx context.Context, key string) (bool, error)
}
