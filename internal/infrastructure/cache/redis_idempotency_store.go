package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/docflow/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "payment:idempotency:"

// RedisIdempotencyStore keeps payment idempotency keys in Redis so that
// retried submissions deduplicate across instances
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisIdempotencyStore connects to Redis and returns a store
func NewRedisIdempotencyStore(cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: defaultKeyPrefix, ttl: ttl}, nil
}

// NewRedisIdempotencyStoreWithClient wraps an existing client, useful when
// sharing one client across components
func NewRedisIdempotencyStoreWithClient(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: defaultKeyPrefix, ttl: ttl}
}

func (s *RedisIdempotencyStore) redisKey(tenantID uuid.UUID, key string) string {
	return s.keyPrefix + tenantID.String() + ":" + key
}

// Get returns the payment ID previously stored under the key
func (s *RedisIdempotencyStore) Get(ctx context.Context, tenantID uuid.UUID, key string) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, s.redisKey(tenantID, key)).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("idempotency value corrupt: %w", err)
	}
	return id, true, nil
}

// Put stores the payment ID under the key with the configured TTL
func (s *RedisIdempotencyStore) Put(ctx context.Context, tenantID uuid.UUID, key string, paymentID uuid.UUID) error {
	if err := s.client.Set(ctx, s.redisKey(tenantID, key), paymentID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency store: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}
