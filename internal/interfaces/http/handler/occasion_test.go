package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/floresya/backend/internal/application/catalog"
	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/shared"
)

// MockOccasionRepository implements catalog.OccasionRepository for testing
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

func setupOccasionRouter(repo *MockOccasionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOccasionHandler(catalogapp.NewOccasionService(repo))

	r := gin.New()
	r.GET("/occasions", h.List)
	r.GET("/occasions/slug/:slug", h.GetBySlug)
	r.POST("/occasions", h.Create)
	return r
}

func mustOccasion(t *testing.T, name, slug string) *catalog.Occasion {
	t.Helper()
	o, err := catalog.NewOccasion(name, slug, "")
	require.NoError(t, err)
	return o
}

func TestOccasionHandler_List(t *testing.T) {
	repo := new(MockOccasionRepository)
	birthday := mustOccasion(t, "Cumpleaños", "cumpleanos")
	repo.On("FindAll", mock.Anything, false).Return([]catalog.Occasion{*birthday}, nil)

	r := setupOccasionRouter(repo)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/occasions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cumpleanos")
	repo.AssertExpectations(t)
}

func TestOccasionHandler_GetBySlug_NotFound(t *testing.T) {
	repo := new(MockOccasionRepository)
	repo.On("FindBySlug", mock.Anything, "navidad").Return(nil, shared.ErrNotFound)

	r := setupOccasionRouter(repo)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/occasions/slug/navidad", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestOccasionHandler_Create(t *testing.T) {
	repo := new(MockOccasionRepository)
	repo.On("ExistsBySlug", mock.Anything, "dia-de-la-madre").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Occasion")).Return(nil)

	body, _ := json.Marshal(gin.H{
		"name": "Día de la Madre",
		"slug": "dia-de-la-madre",
	})

	r := setupOccasionRouter(repo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/occasions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Slug     string `json:"slug"`
			IsActive bool   `json:"is_active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "dia-de-la-madre", resp.Data.Slug)
	assert.True(t, resp.Data.IsActive)
	repo.AssertExpectations(t)
}

func TestOccasionHandler_Create_DuplicateSlug(t *testing.T) {
	repo := new(MockOccasionRepository)
	repo.On("ExistsBySlug", mock.Anything, "cumpleanos").Return(true, nil)

	body, _ := json.Marshal(gin.H{
		"name": "Cumpleaños",
		"slug": "cumpleanos",
	})

	r := setupOccasionRouter(repo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/occasions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_EXISTS")
}

func TestOccasionHandler_Create_MissingName(t *testing.T) {
	repo := new(MockOccasionRepository)

	body, _ := json.Marshal(gin.H{"slug": "sin-nombre"})

	r := setupOccasionRouter(repo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/occasions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
