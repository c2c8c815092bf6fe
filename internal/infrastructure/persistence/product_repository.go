package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID with its occasion tags
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Occasions").
		Where("deleted_at IS NULL").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs finds multiple products by ID, used to price a checkout
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds products with filtering, accent-insensitive search and pagination
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalog.Product], error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("products.deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)
	return r.findPaginated(query, filter)
}

// FindByOccasion finds products tagged with an occasion
func (r *GormProductRepository) FindByOccasion(ctx context.Context, occasionID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalog.Product], error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Joins("JOIN product_occasions ON product_occasions.product_id = products.id").
		Where("product_occasions.occasion_id = ? AND products.deleted_at IS NULL", occasionID)
	query = r.applyFilterWithoutPagination(query, filter)
	return r.findPaginated(query, filter)
}

// FindFeatured lists featured active products ordered by carousel order
func (r *GormProductRepository) FindFeatured(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("featured = ? AND is_active = ? AND deleted_at IS NULL", true, true).
		Order("carousel_order ASC NULLS LAST, name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product with its occasion tags
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Occasions").Save(p).Error; err != nil {
			return err
		}
		return tx.Model(p).Association("Occasions").Replace(p.Occasions)
	})
}

// AdjustStock atomically applies a stock delta. The update is guarded so
// stock can never go negative under concurrent checkouts.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND stock + ? >= 0 AND deleted_at IS NULL", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

func (r *GormProductRepository) findPaginated(query *gorm.DB, filter shared.Filter) (*shared.Paginated[catalog.Product], error) {
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

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var products []catalog.Product
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.
		Preload("Occasions").
		Order("products." + orderBy + " " + orderDir).
		Offset(offset).
		Limit(filter.PageSize).
		Find(&products).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(products, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + NormalizeSearchTerm(filter.Search) + "%"
		query = query.Where(
			"LOWER(unaccent(products.name)) LIKE ? OR LOWER(unaccent(products.summary)) LIKE ? OR LOWER(products.sku) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("products.is_active = ?", value)
		case "featured":
			query = query.Where("products.featured = ?", value)
		case "min_price":
			query = query.Where("products.price_usd >= ?", value)
		case "max_price":
			query = query.Where("products.price_usd <= ?", value)
		case "in_stock":
			if inStock, ok := value.(bool); ok && inStock {
				query = query.Where("products.stock > 0")
			}
		}
	}

	return query
}

// Ensure GormProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
