package catalog

import (
	"regexp"
	"time"

	"github.com/floresya/backend/internal/domain/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Occasion represents a browsing category such as birthdays or anniversaries.
// Occasions are soft deleted: deactivated rows stay in place so product
// tags and old links keep resolving.
type Occasion struct {
	shared.BaseEntity
	Name         string     `gorm:"not null" json:"name"`
	Slug         string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	Color        string     `json:"color"`
	DisplayOrder int        `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for GORM
func (Occasion) TableName() string {
	return "occasions"
}

// ValidateSlug checks that a slug is lowercase kebab-case
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

// NewOccasion creates a new active occasion
func NewOccasion(name, slug, description string) (*Occasion, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Occasion name cannot be empty")
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	return &Occasion{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        slug,
		Description: description,
		IsActive:    true,
	}, nil
}

// Update updates the editable occasion fields.
// The slug is immutable after creation so published links keep working.
func (o *Occasion) Update(name, description, icon, color string, displayOrder int) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Occasion name cannot be empty")
	}
	o.Name = name
	o.Description = description
	o.Icon = icon
	o.Color = color
	o.DisplayOrder = displayOrder
	o.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the occasion from the storefront. The row stays
// visible to admin listings so it can be restored later.
func (o *Occasion) Deactivate() {
	o.IsActive = false
	o.UpdatedAt = time.Now()
}

// Restore reactivates a deactivated occasion
func (o *Occasion) Restore() {
	o.IsActive = true
	o.UpdatedAt = time.Now()
}
