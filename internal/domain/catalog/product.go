package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/shared"
)

// Product represents a flower arrangement in the catalog.
// Prices are stored in USD; the VES price is computed at display time
// from the current BCV rate, never stored.
type Product struct {
	shared.BaseEntity
	Name          string          `gorm:"not null" json:"name"`
	Summary       string          `json:"summary"`
	Description   string          `json:"description"`
	SKU           string          `gorm:"uniqueIndex" json:"sku"`
	PriceUSD      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_usd"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	ImageURL      string          `json:"image_url"`
	Featured      bool            `gorm:"not null;default:false" json:"featured"`
	CarouselOrder *int            `json:"carousel_order"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	DeletedAt     *time.Time      `gorm:"index" json:"deleted_at,omitempty"`
	Occasions     []Occasion      `gorm:"many2many:product_occasions" json:"occasions,omitempty"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, summary, sku string, priceUSD decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if priceUSD.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Summary:    summary,
		SKU:        sku,
		PriceUSD:   priceUSD,
		Stock:      stock,
		IsActive:   true,
	}, nil
}

// Update updates the editable product fields
func (p *Product) Update(name, summary, description, imageURL string, priceUSD decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if priceUSD.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Product price must be positive")
	}
	p.Name = name
	p.Summary = summary
	p.Description = description
	p.ImageURL = imageURL
	p.PriceUSD = priceUSD
	p.UpdatedAt = time.Now()
	return nil
}

// AdjustStock applies a stock delta, rejecting changes that would go negative
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return shared.ErrInsufficientStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return nil
}

// CanFulfill returns true if the product is active with enough stock
func (p *Product) CanFulfill(quantity int) bool {
	return p.IsActive && quantity > 0 && p.Stock >= quantity
}

// SetFeatured marks the product for the featured listing.
// carouselOrder may be nil to drop the product from the carousel.
func (p *Product) SetFeatured(featured bool, carouselOrder *int) {
	p.Featured = featured
	p.CarouselOrder = carouselOrder
	if !featured {
		p.CarouselOrder = nil
	}
	p.UpdatedAt = time.Now()
}

// SetOccasions replaces the occasion tags on the product
func (p *Product) SetOccasions(occasions []Occasion) {
	p.Occasions = occasions
	p.UpdatedAt = time.Now()
}

// HasOccasion returns true if the product is tagged with the occasion
func (p *Product) HasOccasion(occasionID uuid.UUID) bool {
	for _, o := range p.Occasions {
		if o.ID == occasionID {
			return true
		}
	}
	return false
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// Restore reactivates a deactivated product
func (p *Product) Restore() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}
