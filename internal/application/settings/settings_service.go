package settings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/settings"
	"github.com/floresya/backend/internal/domain/shared"
)

// Cache fronts the settings repository for hot keys such as the
// delivery cost and BCV rate, which are read on every checkout.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// DefaultCacheTTL bounds how stale a cached setting value may be
const DefaultCacheTTL = 5 * time.Minute

// CreateSettingRequest creates a configuration setting
type CreateSettingRequest struct {
	Key         string `json:"key" binding:"required,min=1,max=100"`
	Value       string `json:"value" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=string number boolean json"`
	Description string `json:"description" binding:"max=500"`
	IsPublic    bool   `json:"is_public"`
}

// UpdateSettingRequest replaces a setting's value
type UpdateSettingRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description" binding:"max=500"`
}

// SettingResponse represents a setting in responses
type SettingResponse struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	IsActive    bool      `json:"is_active"`
}

// ToSettingResponse converts a domain setting to a response DTO
func ToSettingResponse(s *settings.Setting) SettingResponse {
	return SettingResponse{
		ID:          s.ID,
		Key:         s.Key,
		Value:       s.Value,
		Type:        string(s.Type),
		Description: s.Description,
		IsPublic:    s.IsPublic,
		IsActive:    s.IsActive,
	}
}

// SettingsService manages configuration settings and provides the
// typed accessors checkout pricing depends on
type SettingsService struct {
	repo     settings.Repository
	cache    Cache
	cacheTTL time.Duration
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.Repository, cache Cache) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, cacheTTL: DefaultCacheTTL}
}

// SetCacheTTL overrides how long typed values stay cached
func (s *SettingsService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// List lists settings; publicOnly restricts to client-safe settings
func (s *SettingsService) List(ctx context.Context, publicOnly bool) ([]SettingResponse, error) {
	rows, err := s.repo.FindAll(ctx, publicOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]SettingResponse, len(rows))
	for i := range rows {
		responses[i] = ToSettingResponse(&rows[i])
	}
	return responses, nil
}

// GetByKey retrieves a setting by key
func (s *SettingsService) GetByKey(ctx context.Context, key string) (*SettingResponse, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	response := ToSettingResponse(setting)
	return &response, nil
}

// GetTypedValue returns a setting's value parsed according to its type
func (s *SettingsService) GetTypedValue(ctx context.Context, key string) (any, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return setting.TypedValue()
}

// Create creates a new setting
func (s *SettingsService) Create(ctx context.Context, req CreateSettingRequest) (*SettingResponse, error) {
	exists, err := s.repo.ExistsByKey(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A setting with this key already exists")
	}

	setting, err := settings.NewSetting(req.Key, req.Value, settings.ValueType(req.Type), req.Description, req.IsPublic)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}

	response := ToSettingResponse(setting)
	return &response, nil
}

// Update replaces a setting's value, invalidating any cached copy
func (s *SettingsService) Update(ctx context.Context, key string, req UpdateSettingRequest) (*SettingResponse, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := setting.UpdateValue(req.Value); err != nil {
		return nil, err
	}
	if req.Description != "" {
		setting.Description = req.Description
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, key)
	}

	response := ToSettingResponse(setting)
	return &response, nil
}

// Delete soft deletes a setting
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return err
	}

	setting.Deactivate()
	if err := s.repo.Save(ctx, setting); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, key)
	}
	return nil
}

// GetDeliveryCost reads DELIVERY_COST_USD as a number. A missing or
// corrupted value is a validation error; there is no default delivery
// cost to silently fall back to.
func (s *SettingsService) GetDeliveryCost(ctx context.Context) (decimal.Decimal, error) {
	value, err := s.numberValue(ctx, settings.KeyDeliveryCostUSD)
	if err != nil {
		return decimal.Zero, err
	}
	if value.IsNegative() {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Setting DELIVERY_COST_USD cannot be negative")
	}
	return value, nil
}

// GetBCVRate reads USD_VES_BCV_RATE as a number. The rate must be
// strictly positive; anything else fails fast.
func (s *SettingsService) GetBCVRate(ctx context.Context) (decimal.Decimal, error) {
	value, err := s.numberValue(ctx, settings.KeyBCVRate)
	if err != nil {
		return decimal.Zero, err
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Setting USD_VES_BCV_RATE must be positive")
	}
	return value, nil
}

func (s *SettingsService) numberValue(ctx context.Context, key string) (decimal.Decimal, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			if d, err := decimal.NewFromString(cached); err == nil {
				return d, nil
			}
			// Corrupted cache entry, drop it and reread
			s.cache.Delete(ctx, key)
		}
	}

	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	value, err := setting.NumberValue()
	if err != nil {
		return decimal.Zero, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, value.String(), s.cacheTTL)
	}
	return value, nil
}
