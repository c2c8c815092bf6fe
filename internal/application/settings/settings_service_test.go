package settings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floresya/backend/internal/domain/settings"
	"github.com/floresya/backend/internal/domain/shared"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.Setting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) FindAll(ctx context.Context, publicOnly bool) ([]settings.Setting, error) {
	args := m.Called(ctx, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settings.Setting), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.Setting) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.values[key] = value
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	delete(c.values, key)
}

func mustSetting(t *testing.T, key, value string, valueType settings.ValueType) *settings.Setting {
	t.Helper()
	s, err := settings.NewSetting(key, value, valueType, "", true)
	require.NoError(t, err)
	return s
}

func TestSettingsService_GetDeliveryCost(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	setting := mustSetting(t, settings.KeyDeliveryCostUSD, "7.00", settings.TypeNumber)
	repo.On("FindByKey", mock.Anything, settings.KeyDeliveryCostUSD).Return(setting, nil)

	cost, err := service.GetDeliveryCost(context.Background())

	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("7.00")))
}

func TestSettingsService_GetDeliveryCost_CorruptedValue(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	setting := &settings.Setting{Key: settings.KeyDeliveryCostUSD, Value: "free", Type: settings.TypeNumber, IsActive: true}
	repo.On("FindByKey", mock.Anything, settings.KeyDeliveryCostUSD).Return(setting, nil)

	_, err := service.GetDeliveryCost(context.Background())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestSettingsService_GetDeliveryCost_Missing(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	repo.On("FindByKey", mock.Anything, settings.KeyDeliveryCostUSD).Return(nil, shared.ErrNotFound)

	_, err := service.GetDeliveryCost(context.Background())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSettingsService_GetBCVRate(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	setting := mustSetting(t, settings.KeyBCVRate, "36.50", settings.TypeNumber)
	repo.On("FindByKey", mock.Anything, settings.KeyBCVRate).Return(setting, nil)

	rate, err := service.GetBCVRate(context.Background())

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("36.50")))
}

func TestSettingsService_GetBCVRate_NotPositive(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	setting := mustSetting(t, settings.KeyBCVRate, "0", settings.TypeNumber)
	repo.On("FindByKey", mock.Anything, settings.KeyBCVRate).Return(setting, nil)

	_, err := service.GetBCVRate(context.Background())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestSettingsService_NumberValue_UsesCache(t *testing.T) {
	repo := new(MockSettingsRepository)
	cache := newMemoryCache()
	service := NewSettingsService(repo, cache)

	setting := mustSetting(t, settings.KeyBCVRate, "36.50", settings.TypeNumber)
	repo.On("FindByKey", mock.Anything, settings.KeyBCVRate).Return(setting, nil).Once()

	_, err := service.GetBCVRate(context.Background())
	require.NoError(t, err)

	// Second read must come from the cache, not the repository
	rate, err := service.GetBCVRate(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("36.50")))
	repo.AssertNumberOfCalls(t, "FindByKey", 1)
}

func TestSettingsService_Update_InvalidatesCache(t *testing.T) {
	repo := new(MockSettingsRepository)
	cache := newMemoryCache()
	service := NewSettingsService(repo, cache)
	cache.Set(context.Background(), settings.KeyBCVRate, "36.50", DefaultCacheTTL)

	setting := mustSetting(t, settings.KeyBCVRate, "36.50", settings.TypeNumber)
	repo.On("FindByKey", mock.Anything, settings.KeyBCVRate).Return(setting, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Update(context.Background(), settings.KeyBCVRate, UpdateSettingRequest{Value: "37.10"})

	require.NoError(t, err)
	assert.Equal(t, "37.10", resp.Value)
	_, cached := cache.Get(context.Background(), settings.KeyBCVRate)
	assert.False(t, cached)
}

func TestSettingsService_Create(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	repo.On("ExistsByKey", mock.Anything, "SITE_NAME").Return(false, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Create(context.Background(), CreateSettingRequest{
		Key:      "SITE_NAME",
		Value:    "FloresYa",
		Type:     "string",
		IsPublic: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "SITE_NAME", resp.Key)
	assert.Equal(t, "FloresYa", resp.Value)
	repo.AssertExpectations(t)
}

func TestSettingsService_Create_DuplicateKey(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	repo.On("ExistsByKey", mock.Anything, "SITE_NAME").Return(true, nil)

	_, err := service.Create(context.Background(), CreateSettingRequest{
		Key:   "SITE_NAME",
		Value: "FloresYa",
		Type:  "string",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestSettingsService_List_PublicOnly(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	rows := []settings.Setting{
		*mustSetting(t, "SITE_NAME", "FloresYa", settings.TypeString),
	}
	repo.On("FindAll", mock.Anything, true).Return(rows, nil)

	responses, err := service.List(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "SITE_NAME", responses[0].Key)
}

func TestSettingsService_Delete_SoftDeletes(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, nil)

	setting := mustSetting(t, "SITE_NAME", "FloresYa", settings.TypeString)
	repo.On("FindByKey", mock.Anything, "SITE_NAME").Return(setting, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *settings.Setting) bool {
		return !s.IsActive
	})).Return(nil)

	err := service.Delete(context.Background(), "SITE_NAME")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
