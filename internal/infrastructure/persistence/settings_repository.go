package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/settings"
	"github.com/floresya/backend/internal/domain/shared"
)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByID finds a setting by ID
func (r *GormSettingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.Setting, error) {
	var s settings.Setting
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByKey finds a setting by its unique key
func (r *GormSettingsRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	var s settings.Setting
	if err := r.db.WithContext(ctx).
		Where("key = ? AND deleted_at IS NULL", key).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists settings; publicOnly restricts to client-safe settings
func (r *GormSettingsRepository) FindAll(ctx context.Context, publicOnly bool) ([]settings.Setting, error) {
	query := r.db.WithContext(ctx).Where("deleted_at IS NULL AND is_active = ?", true)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var rows []settings.Setting
	if err := query.Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates a setting
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.Setting) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// ExistsByKey checks if a key is already taken
func (r *GormSettingsRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&settings.Setting{}).
		Where("key = ? AND deleted_at IS NULL", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormSettingsRepository implements settings.Repository
var _ settings.Repository = (*GormSettingsRepository)(nil)
