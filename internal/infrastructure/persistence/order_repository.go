package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID with items and status history
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its public order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("order_number = ?", orderNumber).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll finds orders with filtering, search and pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&order.Order{}), filter)
}

// FindByUser finds orders placed by a registered user
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("user_id = ?", userID)
	return r.findPaginated(ctx, query, filter)
}

// FindByStatus finds orders in a given status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status order.OrderStatus, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where("status = ?", status)
	return r.findPaginated(ctx, query, filter)
}

func (r *GormOrderRepository) findPaginated(ctx context.Context, query *gorm.DB, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	query = r.applyFilterWithoutPagination(query, filter)

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

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []order.Order
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.
		Preload("Items").
		Order(orderBy + " " + orderDir).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates an order with its items and history
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return txFrom(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "StatusHistory").Save(o).Error; err != nil {
			return err
		}

		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}

		// Status history is append-only, existing rows are never rewritten
		for i := range o.StatusHistory {
			o.StatusHistory[i].OrderID = o.ID
			if err := tx.Where("id = ?", o.StatusHistory[i].ID).
				FirstOrCreate(&o.StatusHistory[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return txFrom(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&order.Order{}).
			Where("id = ?", o.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != o.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		o.Version++
		o.UpdatedAt = time.Now()

		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":        o.Status,
				"cancel_reason": o.CancelReason,
				"verified_at":   o.VerifiedAt,
				"shipped_at":    o.ShippedAt,
				"delivered_at":  o.DeliveredAt,
				"cancelled_at":  o.CancelledAt,
				"notes":         o.Notes,
				"version":       o.Version,
				"updated_at":    o.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		for i := range o.StatusHistory {
			o.StatusHistory[i].OrderID = o.ID
			if err := tx.Where("id = ?", o.StatusHistory[i].ID).
				FirstOrCreate(&o.StatusHistory[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns per-status order counts for the filter set.
// The filter composes the same conditions as FindAll so list and
// dashboard totals always agree.
func (r *GormOrderRepository) CountByStatus(ctx context.Context, filter shared.Filter) ([]order.StatusCount, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)

	var counts []order.StatusCount
	if err := query.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Revenue aggregates revenue for the filter set. Cancelled orders are excluded.
func (r *GormOrderRepository) Revenue(ctx context.Context, filter shared.Filter) (*order.RevenueTotals, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)

	var totals order.RevenueTotals
	if err := query.
		Select("COUNT(*) as order_count, COALESCE(SUM(total_usd), 0) as total_usd, COALESCE(SUM(total_ves), 0) as total_ves").
		Where("status <> ?", order.OrderStatusCancelled).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

// TopProducts ranks products by quantity sold for the filter set.
// Cancelled orders are excluded.
func (r *GormOrderRepository) TopProducts(ctx context.Context, filter shared.Filter, limit int) ([]order.TopProduct, error) {
	matching := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}).Select("id"), filter).
		Where("status <> ?", order.OrderStatusCancelled)

	var products []order.TopProduct
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) as quantity, COALESCE(SUM(order_items.subtotal_usd), 0) as revenue_usd").
		Where("order_items.order_id IN (?)", matching).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ExistsByOrderNumber checks if an order number is already taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates a unique order number.
// Format: FY-YYYY-NNNNN (e.g., FY-2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("FY-%d-", year)

	var lastOrder order.Order
	err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByOrderNumber(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByOrderNumber(ctx, orderNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return orderNumber, nil
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + NormalizeSearchTerm(filter.Search) + "%"
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(unaccent(customer_name)) LIKE ? OR LOWER(unaccent(customer_email)) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		case "delivery_city":
			query = query.Where("delivery_city = ?", value)
		case "min_total":
			query = query.Where("total_usd >= ?", value)
		case "max_total":
			query = query.Where("total_usd <= ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
