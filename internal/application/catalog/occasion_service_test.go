package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/shared"
)

// MockOccasionRepository is a mock implementation of catalog.OccasionRepository
type MockOccasionRepository struct {
	mock.Mock
}

func (m *MockOccasionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Occasion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Occasion), args.Error(1)
}

func (m *MockOccasionRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Occasion, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Occasion), args.Error(1)
}

func (m *MockOccasionRepository) FindAll(ctx context.Context, includeDeactivated bool) ([]catalog.Occasion, error) {
	args := m.Called(ctx, includeDeactivated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Occasion), args.Error(1)
}

func (m *MockOccasionRepository) Save(ctx context.Context, o *catalog.Occasion) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOccasionRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalog.Product], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) FindByOccasion(ctx context.Context, occasionID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalog.Product], error) {
	args := m.Called(ctx, occasionID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) FindFeatured(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// MockRateProvider is a mock implementation of RateProvider
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetBCVRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestOccasionService_Create(t *testing.T) {
	repo := new(MockOccasionRepository)
	service := NewOccasionService(repo)

	repo.On("ExistsBySlug", mock.Anything, "dia-de-la-madre").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Occasion")).Return(nil)

	resp, err := service.Create(context.Background(), CreateOccasionRequest{
		Name: "Día de la Madre",
		Slug: "dia-de-la-madre",
	})
	require.NoError(t, err)
	assert.Equal(t, "dia-de-la-madre", resp.Slug)
	assert.True(t, resp.IsActive)
	repo.AssertExpectations(t)
}

func TestOccasionService_Create_DuplicateSlug(t *testing.T) {
	repo := new(MockOccasionRepository)
	service := NewOccasionService(repo)

	repo.On("ExistsBySlug", mock.Anything, "cumpleanos").Return(true, nil)

	_, err := service.Create(context.Background(), CreateOccasionRequest{
		Name: "Cumpleaños",
		Slug: "cumpleanos",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOccasionService_Create_InvalidSlug(t *testing.T) {
	repo := new(MockOccasionRepository)
	service := NewOccasionService(repo)

	repo.On("ExistsBySlug", mock.Anything, "Slug Invalido").Return(false, nil)

	_, err := service.Create(context.Background(), CreateOccasionRequest{
		Name: "X",
		Slug: "Slug Invalido",
	})
	assert.Error(t, err)
}

func TestOccasionService_Delete_Deactivates(t *testing.T) {
	repo := new(MockOccasionRepository)
	service := NewOccasionService(repo)

	o, err := catalog.NewOccasion("Graduaciones", "graduaciones", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	repo.On("Save", mock.Anything, o).Return(nil)

	require.NoError(t, service.Delete(context.Background(), o.ID))
	assert.False(t, o.IsActive)
	assert.Nil(t, o.DeletedAt)
}

func TestOccasionService_Restore(t *testing.T) {
	repo := new(MockOccasionRepository)
	service := NewOccasionService(repo)

	o, err := catalog.NewOccasion("Graduaciones", "graduaciones", "")
	require.NoError(t, err)
	o.Deactivate()

	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	repo.On("Save", mock.Anything, o).Return(nil)

	resp, err := service.Restore(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestProductService_List_ComputesVESPrice(t *testing.T) {
	productRepo := new(MockProductRepository)
	rates := new(MockRateProvider)
	service := NewProductService(productRepo, new(MockOccasionRepository), rates)

	p, err := catalog.NewProduct("Ramo Tricolor", "12 rosas", "FY-RT-012", decimal.NewFromFloat(29.99), 10)
	require.NoError(t, err)

	page := shared.NewPaginated([]catalog.Product{*p}, 1, 1, 20)
	rates.On("GetBCVRate", mock.Anything).Return(decimal.NewFromFloat(36.50), nil)
	productRepo.On("FindAll", mock.Anything, mock.Anything).Return(&page, nil)

	items, total, err := service.List(context.Background(), ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.True(t, items[0].PriceVES.Equal(decimal.NewFromFloat(1094.64)))
}

func TestProductService_List_MissingRateFailsFast(t *testing.T) {
	productRepo := new(MockProductRepository)
	rates := new(MockRateProvider)
	service := NewProductService(productRepo, new(MockOccasionRepository), rates)

	rates.On("GetBCVRate", mock.Anything).Return(decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", "Setting USD_VES_BCV_RATE has an invalid numeric value"))

	_, _, err := service.List(context.Background(), ProductListFilter{})
	assert.Error(t, err)
	productRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}
