package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/domain/shared"
	"github.com/floresya/backend/internal/domain/shared/valueobject"
)

// setupOrderTestDB creates an in-memory SQLite database for testing
func setupOrderTestDB(t *testing.T) *gorm.DB {
	db := openTestDB(t)

	err := db.Exec(`
		CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id TEXT,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			delivery_address TEXT NOT NULL,
			delivery_city TEXT NOT NULL,
			delivery_state TEXT,
			delivery_date DATETIME,
			delivery_time_slot TEXT,
			delivery_notes TEXT,
			notes TEXT,
			subtotal_usd DECIMAL(10,2) NOT NULL,
			delivery_cost_usd DECIMAL(10,2) NOT NULL,
			total_usd DECIMAL(10,2) NOT NULL,
			total_ves DECIMAL(14,2) NOT NULL,
			currency_rate DECIMAL(14,4) NOT NULL,
			status TEXT NOT NULL,
			cancel_reason TEXT,
			verified_at DATETIME,
			shipped_at DATETIME,
			delivered_at DATETIME,
			cancelled_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_summary TEXT,
			unit_price_usd DECIMAL(10,2) NOT NULL,
			unit_price_ves DECIMAL(14,2) NOT NULL,
			quantity INTEGER NOT NULL,
			subtotal_usd DECIMAL(10,2) NOT NULL,
			subtotal_ves DECIMAL(14,2) NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE status_changes (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			old_status TEXT,
			new_status TEXT NOT NULL,
			notes TEXT,
			changed_by TEXT,
			created_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func buildTestOrder(t *testing.T, orderNumber string) *order.Order {
	t.Helper()
	rate := decimal.RequireFromString("36.50")
	price := valueobject.NewMoneyUSDFromFloat(29.99)

	item, err := order.NewOrderItem(uuid.Nil, uuid.New(), "Ramo Tricolor", "Rosas rojas, blancas y amarillas", 2, price, rate)
	require.NoError(t, err)

	o, err := order.NewOrder(orderNumber, nil, order.CustomerInfo{
		Name:            "María Pérez",
		Email:           "maria@example.com",
		Phone:           "+58-412-5551234",
		DeliveryAddress: "Av. Francisco de Miranda, Torre A",
		DeliveryCity:    "Caracas",
	}, []order.OrderItem{*item}, valueobject.NewMoneyUSDFromFloat(7.00), rate)
	require.NoError(t, err)
	return o
}

// statsWindowFilter bounds stats queries to the test run's time window
func statsWindowFilter() shared.Filter {
	return shared.Filter{
		Filters: map[string]interface{}{
			"start_date": time.Now().Add(-time.Hour),
			"end_date":   time.Now().Add(time.Hour),
		},
	}
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, repo.Save(ctx, o))

	retrieved, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "FY-2026-00001", retrieved.OrderNumber)
	assert.Equal(t, order.OrderStatusPending, retrieved.Status)
	require.Len(t, retrieved.Items, 1)
	assert.Equal(t, "Ramo Tricolor", retrieved.Items[0].ProductName)
	require.Len(t, retrieved.StatusHistory, 1)
	assert.Equal(t, order.OrderStatusPending, retrieved.StatusHistory[0].NewStatus)
	assert.True(t, retrieved.TotalUSD.Equal(decimal.RequireFromString("66.98")))
}

func TestGormOrderRepository_FindByOrderNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00007")
	require.NoError(t, repo.Save(ctx, o))

	retrieved, err := repo.FindByOrderNumber(ctx, "FY-2026-00007")
	require.NoError(t, err)
	assert.Equal(t, o.ID, retrieved.ID)

	_, err = repo.FindByOrderNumber(ctx, "FY-2026-99999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00002")
	require.NoError(t, repo.Save(ctx, o))

	require.NoError(t, o.Verify("Payment verified", nil))
	require.NoError(t, repo.SaveWithLock(ctx, o))

	retrieved, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusVerified, retrieved.Status)
	assert.Equal(t, 2, retrieved.Version)
	assert.Len(t, retrieved.StatusHistory, 2)
}

func TestGormOrderRepository_SaveWithLock_ConcurrentModification(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00003")
	require.NoError(t, repo.Save(ctx, o))

	// Simulate another writer bumping the version
	require.NoError(t, db.Model(&order.Order{}).Where("id = ?", o.ID).Update("version", 5).Error)

	require.NoError(t, o.Verify("Payment verified", nil))
	err := repo.SaveWithLock(ctx, o)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	num, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FY-%d-00001", year), num)

	o := buildTestOrder(t, num)
	require.NoError(t, repo.Save(ctx, o))

	next, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FY-%d-00002", year), next)
}

func TestGormOrderRepository_FindAll_Pagination(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		o := buildTestOrder(t, fmt.Sprintf("FY-2026-%05d", i))
		require.NoError(t, repo.Save(ctx, o))
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 2

	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
}

func TestGormOrderRepository_FindByStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	pending := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, repo.Save(ctx, pending))

	verified := buildTestOrder(t, "FY-2026-00002")
	require.NoError(t, verified.Verify("Payment verified", nil))
	require.NoError(t, repo.Save(ctx, verified))

	page, err := repo.FindByStatus(ctx, order.OrderStatusVerified, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "FY-2026-00002", page.Items[0].OrderNumber)
}

func TestGormOrderRepository_Revenue_ExcludesCancelled(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	kept := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, repo.Save(ctx, kept))

	cancelled := buildTestOrder(t, "FY-2026-00002")
	require.NoError(t, cancelled.Cancel("Customer changed their mind", nil))
	require.NoError(t, repo.Save(ctx, cancelled))

	totals, err := repo.Revenue(ctx, statsWindowFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.OrderCount)
	assert.True(t, totals.TotalUSD.Equal(decimal.RequireFromString("66.98")),
		"got %s", totals.TotalUSD)
}

func TestGormOrderRepository_CountByStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		o := buildTestOrder(t, fmt.Sprintf("FY-2026-%05d", i))
		require.NoError(t, repo.Save(ctx, o))
	}
	cancelled := buildTestOrder(t, "FY-2026-00099")
	require.NoError(t, cancelled.Cancel("Out of stock", nil))
	require.NoError(t, repo.Save(ctx, cancelled))

	counts, err := repo.CountByStatus(ctx, statsWindowFilter())
	require.NoError(t, err)

	byStatus := make(map[order.OrderStatus]int64)
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, int64(3), byStatus[order.OrderStatusPending])
	assert.Equal(t, int64(1), byStatus[order.OrderStatusCancelled])
}

func TestGormOrderRepository_TopProducts_ExcludesCancelled(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	kept := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, repo.Save(ctx, kept))

	cancelled := buildTestOrder(t, "FY-2026-00002")
	require.NoError(t, cancelled.Cancel("Duplicate order", nil))
	require.NoError(t, repo.Save(ctx, cancelled))

	top, err := repo.TopProducts(ctx, statsWindowFilter(), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Ramo Tricolor", top[0].ProductName)
	assert.Equal(t, int64(2), top[0].Quantity)
}

func TestGormOrderRepository_Stats_ComposeListFilters(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	pending := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, repo.Save(ctx, pending))

	delivered := buildTestOrder(t, "FY-2026-00002")
	require.NoError(t, delivered.Verify("", nil))
	require.NoError(t, delivered.TransitionTo(order.OrderStatusPreparing, "", nil))
	require.NoError(t, delivered.TransitionTo(order.OrderStatusShipped, "", nil))
	require.NoError(t, delivered.TransitionTo(order.OrderStatusDelivered, "", nil))
	require.NoError(t, repo.Save(ctx, delivered))

	// Status narrows the counts the same way it narrows the list
	filter := statsWindowFilter()
	filter.Filters["status"] = string(order.OrderStatusDelivered)

	counts, err := repo.CountByStatus(ctx, filter)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, order.OrderStatusDelivered, counts[0].Status)
	assert.Equal(t, int64(1), counts[0].Count)

	totals, err := repo.Revenue(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.OrderCount)

	// Search narrows them too
	searched := statsWindowFilter()
	searched.Search = "no-such-customer"

	counts, err = repo.CountByStatus(ctx, searched)
	require.NoError(t, err)
	assert.Empty(t, counts)

	top, err := repo.TopProducts(ctx, searched, 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestGormOrderRepository_Search(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, repo.Save(ctx, o))

	// Unaccented search finds the accented customer name
	filter := shared.DefaultFilter()
	filter.Search = "maria perez"

	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// Accented input folds to the same match
	filter.Search = "María"
	page, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	filter.Search = "no-such-customer"
	page, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}
