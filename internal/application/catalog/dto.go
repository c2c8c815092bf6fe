package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/catalog"
)

// CreateOccasionRequest creates a browsing occasion
type CreateOccasionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateOccasionRequest updates an existing occasion
type UpdateOccasionRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Description  string `json:"description" binding:"max=500"`
	Icon         string `json:"icon" binding:"max=50"`
	Color        string `json:"color" binding:"max=20"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
}

// OccasionResponse represents an occasion in responses
type OccasionResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Color        string    `json:"color,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Summary     string          `json:"summary" binding:"max=300"`
	Description string          `json:"description" binding:"max=2000"`
	SKU         string          `json:"sku" binding:"required,min=1,max=50"`
	PriceUSD    decimal.Decimal `json:"price_usd" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
	OccasionIDs []uuid.UUID     `json:"occasion_ids"`
}

// UpdateProductRequest updates an existing product
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Summary     string          `json:"summary" binding:"max=300"`
	Description string          `json:"description" binding:"max=2000"`
	PriceUSD    decimal.Decimal `json:"price_usd" binding:"required"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
	OccasionIDs []uuid.UUID     `json:"occasion_ids"`
}

// SetFeaturedRequest updates a product's featured/carousel placement
type SetFeaturedRequest struct {
	Featured      bool `json:"featured"`
	CarouselOrder *int `json:"carousel_order"`
}

// AdjustStockRequest applies a stock delta to a product
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductListFilter represents product list filtering options
type ProductListFilter struct {
	Page               int
	PageSize           int
	OrderBy            string
	OrderDir           string
	Search             string
	OccasionID         *uuid.UUID
	IncludeDeactivated bool
}

// ProductResponse represents a product in responses.
// PriceVES is computed from the current BCV rate at read time.
type ProductResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Summary       string             `json:"summary,omitempty"`
	Description   string             `json:"description,omitempty"`
	SKU           string             `json:"sku"`
	PriceUSD      decimal.Decimal    `json:"price_usd"`
	PriceVES      decimal.Decimal    `json:"price_ves"`
	Stock         int                `json:"stock"`
	ImageURL      string             `json:"image_url,omitempty"`
	Featured      bool               `json:"featured"`
	CarouselOrder *int               `json:"carousel_order,omitempty"`
	IsActive      bool               `json:"is_active"`
	Occasions     []OccasionResponse `json:"occasions,omitempty"`
}

// ToOccasionResponse converts a domain occasion to a response DTO
func ToOccasionResponse(o *catalog.Occasion) OccasionResponse {
	return OccasionResponse{
		ID:           o.ID,
		Name:         o.Name,
		Slug:         o.Slug,
		Description:  o.Description,
		Icon:         o.Icon,
		Color:        o.Color,
		DisplayOrder: o.DisplayOrder,
		IsActive:     o.IsActive,
	}
}

// ToOccasionResponses converts domain occasions to response DTOs
func ToOccasionResponses(occasions []catalog.Occasion) []OccasionResponse {
	responses := make([]OccasionResponse, len(occasions))
	for i := range occasions {
		responses[i] = ToOccasionResponse(&occasions[i])
	}
	return responses
}

// ToProductResponse converts a domain product to a response DTO,
// computing the VES price at the given rate
func ToProductResponse(p *catalog.Product, rate decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Summary:       p.Summary,
		Description:   p.Description,
		SKU:           p.SKU,
		PriceUSD:      p.PriceUSD,
		PriceVES:      p.PriceUSD.Mul(rate).Round(2),
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		Featured:      p.Featured,
		CarouselOrder: p.CarouselOrder,
		IsActive:      p.IsActive,
		Occasions:     ToOccasionResponses(p.Occasions),
	}
}

// ToProductResponses converts domain products to response DTOs
func ToProductResponses(products []catalog.Product, rate decimal.Decimal) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i], rate)
	}
	return responses
}
