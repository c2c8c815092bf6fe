package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/payment"
	"github.com/floresya/backend/internal/domain/shared"
)

// GormPaymentMethodRepository implements payment.MethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindByID finds a payment method by ID
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Method, error) {
	var m payment.Method
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByCode finds a payment method by its unique code
func (r *GormPaymentMethodRepository) FindByCode(ctx context.Context, code string) (*payment.Method, error) {
	var m payment.Method
	if err := r.db.WithContext(ctx).
		Where("code = ? AND deleted_at IS NULL", code).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindActive lists active methods ordered by display order
func (r *GormPaymentMethodRepository) FindActive(ctx context.Context) ([]payment.Method, error) {
	var methods []payment.Method
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Order("display_order ASC, name ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// FindAll lists all methods including inactive ones
func (r *GormPaymentMethodRepository) FindAll(ctx context.Context) ([]payment.Method, error) {
	var methods []payment.Method
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("display_order ASC, name ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// Save creates or updates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, m *payment.Method) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete soft deletes a payment method
func (r *GormPaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&payment.Method{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": &now,
			"is_active":  false,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if a method code is already taken
func (r *GormPaymentMethodRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.Method{}).
		Where("code = ? AND deleted_at IS NULL", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPaymentMethodRepository implements payment.MethodRepository
var _ payment.MethodRepository = (*GormPaymentMethodRepository)(nil)
