package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quantive/execengine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "snapshot:"

// SnapshotCache implements ports.SnapshotCache using Redis. Snapshots are
// stored as JSON with a TTL so stale market data expires on its own.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a new Redis snapshot cache.
func NewSnapshotCache(addr string, db int, password string, ttl time.Duration) *SnapshotCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &SnapshotCache{
		client: rdb,
		ttl:    ttl,
	}
}

// NewSnapshotCacheWithClient creates a snapshot cache with an existing client (for testing).
func NewSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cached snapshot for a symbol. Returns
// domain.ErrSnapshotNotFound when no snapshot is cached or it has expired.
func (c *SnapshotCache) Get(ctx context.Context, symbol string) (*domain.MarketSnapshot, error) {
	data, err := c.client.Get(ctx, snapshotKeyPrefix+symbol).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot domain.MarketSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}

	return &snapshot, nil
}

// Set stores a snapshot under the symbol key.
func (c *SnapshotCache) Set(ctx context.Context, snapshot *domain.MarketSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKeyPrefix+snapshot.Symbol, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}

// Close releases the underlying client connection.
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
