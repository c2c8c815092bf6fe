package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/shared"
)

// RateProvider supplies the current BCV exchange rate for computed
// VES prices in catalog responses
type RateProvider interface {
	GetBCVRate(ctx context.Context) (decimal.Decimal, error)
}

// ProductService handles product management
type ProductService struct {
	productRepo  catalog.ProductRepository
	occasionRepo catalog.OccasionRepository
	rates        RateProvider
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, occasionRepo catalog.OccasionRepository, rates RateProvider) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		occasionRepo: occasionRepo,
		rates:        rates,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := catalog.NewProduct(req.Name, req.Summary, req.SKU, req.PriceUSD, req.Stock)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.ImageURL = req.ImageURL

	if len(req.OccasionIDs) > 0 {
		occasions, err := s.resolveOccasions(ctx, req.OccasionIDs)
		if err != nil {
			return nil, err
		}
		p.SetOccasions(occasions)
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return s.respond(ctx, p)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, p)
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	rate, err := s.rates.GetBCVRate(ctx)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := s.toDomainFilter(filter)

	var result *shared.Paginated[catalog.Product]
	if filter.OccasionID != nil {
		result, err = s.productRepo.FindByOccasion(ctx, *filter.OccasionID, domainFilter)
	} else {
		result, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(result.Items, rate), result.Total, nil
}

// ListFeatured lists featured products for the storefront carousel
func (s *ProductService) ListFeatured(ctx context.Context) ([]ProductResponse, error) {
	rate, err := s.rates.GetBCVRate(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products, rate), nil
}

// Update updates a product's editable fields and occasion tags
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(req.Name, req.Summary, req.Description, req.ImageURL, req.PriceUSD); err != nil {
		return nil, err
	}

	if req.OccasionIDs != nil {
		occasions, err := s.resolveOccasions(ctx, req.OccasionIDs)
		if err != nil {
			return nil, err
		}
		p.SetOccasions(occasions)
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return s.respond(ctx, p)
}

// SetFeatured updates a product's featured/carousel placement
func (s *ProductService) SetFeatured(ctx context.Context, id uuid.UUID, req SetFeaturedRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.SetFeatured(req.Featured, req.CarouselOrder)

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return s.respond(ctx, p)
}

// AdjustStock applies a manual stock delta
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	if err := s.productRepo.AdjustStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p.Deactivate()
	return s.productRepo.Save(ctx, p)
}

// Restore reactivates a soft-deleted product
func (s *ProductService) Restore(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Restore()
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return s.respond(ctx, p)
}

func (s *ProductService) resolveOccasions(ctx context.Context, ids []uuid.UUID) ([]catalog.Occasion, error) {
	occasions := make([]catalog.Occasion, 0, len(ids))
	for _, id := range ids {
		o, err := s.occasionRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		occasions = append(occasions, *o)
	}
	return occasions, nil
}

func (s *ProductService) respond(ctx context.Context, p *catalog.Product) (*ProductResponse, error) {
	rate, err := s.rates.GetBCVRate(ctx)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(p, rate)
	return &response, nil
}

func (s *ProductService) toDomainFilter(filter ProductListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if !filter.IncludeDeactivated {
		domainFilter.Filters["is_active"] = true
	}
	return domainFilter
}
