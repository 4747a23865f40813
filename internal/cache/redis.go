package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/models"
)

// AvailableListingsKey is the Redis key holding the browse snapshot.
const AvailableListingsKey = "listings:available"

// AvailableListingsGenerationKey counts invalidations of AvailableListingsKey.
const AvailableListingsGenerationKey = "listings:available:generation"

// ConnectRedis initializes and returns a Redis client instance.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		// Close the client if ping fails
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Logger.WithField("addr", addr).Info("Successfully connected to Redis")
	return rdb, nil
}

// DisconnectRedis closes the Redis client connection.
func DisconnectRedis(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	logging.Logger.Info("Redis connection closed")
	return nil
}

// RedisSnapshotCache stores the available-listings snapshot as a JSON blob. A counter under
// the generation key is advanced by Invalidate; Set watches it and writes only while it
// still holds the generation the caller read before querying the store.
type RedisSnapshotCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewRedisSnapshotCache returns a cache under AvailableListingsKey.
// A zero ttl keeps the snapshot until the next invalidation.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client: client,
		key:    AvailableListingsKey,
		genKey: AvailableListingsGenerationKey,
		ttl:    ttl,
	}
}

func (c *RedisSnapshotCache) Get(ctx context.Context) ([]models.Listing, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", c.key, err)
	}

	var listings []models.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, true, nil
}

func (c *RedisSnapshotCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client, c.genKey)
}

func (c *RedisSnapshotCache) Set(ctx context.Context, generation int64, listings []models.Listing) (bool, error) {
	raw, err := json.Marshal(listings)
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, c.genKey)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, c.genKey)

	if errors.Is(err, redis.TxFailedErr) {
		// The generation moved between WATCH and EXEC.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return stored, nil
}

func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", c.key, err)
	}
	return nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, r stringGetter, key string) (int64, error) {
	gen, err := r.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return gen, nil
}
