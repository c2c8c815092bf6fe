package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/shared"
)

// GormOccasionRepository implements catalog.OccasionRepository using GORM
type GormOccasionRepository struct {
	db *gorm.DB
}

// NewGormOccasionRepository creates a new GormOccasionRepository
func NewGormOccasionRepository(db *gorm.DB) *GormOccasionRepository {
	return &GormOccasionRepository{db: db}
}

// FindByID finds an occasion by ID
func (r *GormOccasionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Occasion, error) {
	var o catalog.Occasion
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindBySlug finds an occasion by its unique slug
func (r *GormOccasionRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Occasion, error) {
	var o catalog.Occasion
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND deleted_at IS NULL", slug).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists occasions ordered by display order
func (r *GormOccasionRepository) FindAll(ctx context.Context, includeDeactivated bool) ([]catalog.Occasion, error) {
	query := r.db.WithContext(ctx).Where("deleted_at IS NULL")
	if !includeDeactivated {
		query = query.Where("is_active = ?", true)
	}

	var occasions []catalog.Occasion
	if err := query.Order("display_order ASC, name ASC").Find(&occasions).Error; err != nil {
		return nil, err
	}
	return occasions, nil
}

// Save creates or updates an occasion
func (r *GormOccasionRepository) Save(ctx context.Context, o *catalog.Occasion) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// ExistsBySlug checks if a slug is already taken
func (r *GormOccasionRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Occasion{}).
		Where("slug = ? AND deleted_at IS NULL", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormOccasionRepository implements catalog.OccasionRepository
var _ catalog.OccasionRepository = (*GormOccasionRepository)(nil)
