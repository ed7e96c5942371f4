package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUnitOfWork_CommitMakesWritesVisible(t *testing.T) {
	db := newTestDB(t)
	uow := NewGormUnitOfWork(db)
	repo := NewGormDocumentRepository(db)
	tenantID := uuid.New()

	doc := newSalesOrder(t, tenantID, "SO-000001", testCustomer(t))
	err := uow.WithinTx(ctxBG(), func(ctx context.Context) error {
		return repo.Save(ctx, doc)
	})
	require.NoError(t, err)

	_, err = repo.FindByID(ctxBG(), tenantID, doc.ID)
	assert.NoError(t, err)
}

func TestGormUnitOfWork_RollbackDiscardsAllWrites(t *testing.T) {
	db := newTestDB(t)
	uow := NewGormUnitOfWork(db)
	repo := NewGormDocumentRepository(db)
	tenantID := uuid.New()

	first := newSalesOrder(t, tenantID, "SO-000001", testCustomer(t))
	second := newSalesOrder(t, tenantID, "SO-000002", testCustomer(t))

	boom := errors.New("boom")
	err := uow.WithinTx(ctxBG(), func(ctx context.Context) error {
		if err := repo.Save(ctx, first); err != nil {
			return err
		}
		if err := repo.Save(ctx, second); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByID(ctxBG(), tenantID, first.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByID(ctxBG(), tenantID, second.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUnitOfWork_NestedCallJoinsTransaction(t *testing.T) {
	db := newTestDB(t)
	uow := NewGormUnitOfWork(db)
	repo := NewGormDocumentRepository(db)
	tenantID := uuid.New()

	doc := newSalesOrder(t, tenantID, "SO-000001", testCustomer(t))
	boom := errors.New("boom")
	err := uow.WithinTx(ctxBG(), func(outer context.Context) error {
		return uow.WithinTx(outer, func(inner context.Context) error {
			if err := repo.Save(inner, doc); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	// the inner failure rolled back the single shared transaction
	_, err = repo.FindByID(ctxBG(), tenantID, doc.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
