package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/floresya/backend/internal/domain/shared"
)

type txKey struct{}

// GormTxManager implements shared.TxManager on top of GORM. The open
// transaction travels in the context, so repository calls made inside
// Do join it instead of opening their own.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do runs fn inside a single database transaction. Any error returned
// by fn rolls back everything written within it.
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// txFrom returns the transaction carried by ctx, or fallback when the
// call is not part of a managed transaction.
func txFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// Ensure GormTxManager implements shared.TxManager
var _ shared.TxManager = (*GormTxManager)(nil)
