package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/payment"
	"github.com/floresya/backend/internal/domain/shared"
)

func setupTxTestDB(t *testing.T) *gorm.DB {
	db := setupOrderTestDB(t)

	err := db.Exec(`
		CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			method_id TEXT NOT NULL,
			method_name TEXT NOT NULL,
			amount_usd DECIMAL(10,2) NOT NULL,
			amount_ves DECIMAL(14,2) NOT NULL,
			currency_rate DECIMAL(14,4) NOT NULL,
			refunded_usd DECIMAL(10,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			reference_number TEXT NOT NULL,
			receipt_image_url TEXT,
			payer_name TEXT,
			payer_phone TEXT,
			admin_notes TEXT,
			user_id TEXT,
			payment_date DATETIME,
			completed_at DATETIME,
			failed_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormTxManager_RollsBackOnError(t *testing.T) {
	db := setupTxTestDB(t)
	txManager := NewGormTxManager(db)
	paymentRepo := NewGormPaymentRepository(db)
	orderRepo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00001")
	require.NoError(t, orderRepo.Save(ctx, o))

	method, err := payment.NewMethod("Pago Móvil", "pago_movil", payment.MethodTypeMobilePayment, "0134")
	require.NoError(t, err)
	p, err := payment.NewPayment(o.ID, method, o.TotalUSD, o.TotalVES, o.CurrencyRate, "REF-001", nil)
	require.NoError(t, err)

	// A lock conflict on the order must also unwind the payment insert
	require.NoError(t, o.Verify("Payment reported", nil))
	o.Version = 99 // stale

	err = txManager.Do(ctx, func(ctx context.Context) error {
		if err := paymentRepo.Save(ctx, p); err != nil {
			return err
		}
		return orderRepo.SaveWithLock(ctx, o)
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)

	// No orphan pending payment is left behind
	_, err = paymentRepo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	pendings, err := paymentRepo.FindByOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, pendings)
}

func TestGormTxManager_CommitsOnSuccess(t *testing.T) {
	db := setupTxTestDB(t)
	txManager := NewGormTxManager(db)
	paymentRepo := NewGormPaymentRepository(db)
	orderRepo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildTestOrder(t, "FY-2026-00002")
	require.NoError(t, orderRepo.Save(ctx, o))

	method, err := payment.NewMethod("Zelle", "zelle", payment.MethodTypeZelle, "pagos@floresya.com")
	require.NoError(t, err)
	p, err := payment.NewPayment(o.ID, method, o.TotalUSD, o.TotalVES, o.CurrencyRate, "REF-002", nil)
	require.NoError(t, err)

	require.NoError(t, o.Verify("Payment reported", nil))

	err = txManager.Do(ctx, func(ctx context.Context) error {
		if err := paymentRepo.Save(ctx, p); err != nil {
			return err
		}
		return orderRepo.SaveWithLock(ctx, o)
	})
	require.NoError(t, err)

	saved, err := paymentRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentStatusPending, saved.Status)

	reloaded, err := orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsVerified())
}
