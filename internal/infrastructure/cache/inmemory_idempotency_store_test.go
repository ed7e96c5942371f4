package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_PutGet(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	tenantID := uuid.New()
	paymentID := uuid.New()

	_, ok, err := store.Get(context.Background(), tenantID, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(context.Background(), tenantID, "key-1", paymentID))

	got, ok, err := store.Get(context.Background(), tenantID, "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, paymentID, got)
}

func TestInMemoryIdempotencyStore_TenantIsolation(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	tenantA := uuid.New()
	tenantB := uuid.New()

	require.NoError(t, store.Put(context.Background(), tenantA, "key-1", uuid.New()))

	_, ok, err := store.Get(context.Background(), tenantB, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	tenantID := uuid.New()
	require.NoError(t, store.Put(context.Background(), tenantID, "key-1", uuid.New()))

	current = current.Add(2 * time.Minute)
	_, ok, err := store.Get(context.Background(), tenantID, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
