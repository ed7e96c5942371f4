package persistence

import (
	"context"

	"github.com/docflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormUnitOfWork runs a function inside one database transaction. The
// transaction handle travels in the context; every repository built on
// dbFrom joins it automatically.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx executes fn inside a transaction. A nested call joins the
// already-open transaction instead of opening a second one.
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFrom(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFrom returns the transaction from the context when inside a unit of
// work, otherwise the fallback connection
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
