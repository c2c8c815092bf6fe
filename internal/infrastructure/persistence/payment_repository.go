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

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByOrder finds all payments recorded for an order, newest first
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]payment.Payment, error) {
	var payments []payment.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindPendingByOrder finds the pending payment for an order, if any
func (r *GormPaymentRepository) FindPendingByOrder(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, payment.PaymentStatusPending).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll finds payments with filtering and pagination
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[payment.Payment], error) {
	query := r.db.WithContext(ctx).Model(&payment.Payment{})

	if filter.Search != "" {
		searchPattern := "%" + NormalizeSearchTerm(filter.Search) + "%"
		query = query.Where("LOWER(reference_number) LIKE ? OR LOWER(unaccent(payer_name)) LIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "method_id":
			query = query.Where("method_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		}
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var payments []payment.Payment
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&payments).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(payments, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return txFrom(ctx, r.db).WithContext(ctx).Save(p).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	return txFrom(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&payment.Payment{}).
			Where("id = ?", p.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != p.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another user")
		}

		p.Version++
		p.UpdatedAt = time.Now()

		result := tx.Model(&payment.Payment{}).
			Where("id = ? AND version = ?", p.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":            p.Status,
				"refunded_usd":      p.RefundedUSD,
				"receipt_image_url": p.ReceiptImageURL,
				"payer_name":        p.PayerName,
				"payer_phone":       p.PayerPhone,
				"admin_notes":       p.AdminNotes,
				"completed_at":      p.CompletedAt,
				"failed_at":         p.FailedAt,
				"version":           p.Version,
				"updated_at":        p.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another user")
		}

		return nil
	})
}

// CountByStatus counts payments in a given status
func (r *GormPaymentRepository) CountByStatus(ctx context.Context, status payment.PaymentStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPaymentRepository implements payment.Repository
var _ payment.Repository = (*GormPaymentRepository)(nil)
