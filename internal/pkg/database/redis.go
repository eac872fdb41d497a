package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
)

// RedisClient wraps the key-value, hash and geospatial operations the
// services consume
type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient creates a new Redis client and verifies connectivity
func NewRedisClient(config models.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{Client: client}, nil
}

// Set stores a key-value pair with an optional expiration
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.Client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key. Returns redis.Nil when the key is absent.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.Client.Get(ctx, key).Result()
}

// Delete removes one or more keys
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.Client.Del(ctx, keys...).Err()
}

// Exists reports whether the key exists
func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Expire sets a TTL on a key
func (r *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.Client.Expire(ctx, key, ttl).Err()
}

// HSetFields stores fields in a hash
func (r *RedisClient) HSetFields(ctx context.Context, key string, fields map[string]interface{}) error {
	return r.Client.HSet(ctx, key, fields).Err()
}

// HGet retrieves a single hash field
func (r *RedisClient) HGet(ctx context.Context, key, field string) (string, error) {
	return r.Client.HGet(ctx, key, field).Result()
}

// HGetAll retrieves all fields of a hash. An absent key yields an empty map,
// not an error.
func (r *RedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.Client.HGetAll(ctx, key).Result()
}

// HDelete removes fields from a hash
func (r *RedisClient) HDelete(ctx context.Context, key string, fields ...string) error {
	return r.Client.HDel(ctx, key, fields...).Err()
}

// GeoUpsert adds or overwrites a member's coordinates in a geo set.
// The set is created lazily on first insert.
func (r *RedisClient) GeoUpsert(ctx context.Context, key, member string, latitude, longitude float64) error {
	return r.Client.GeoAdd(ctx, key, &redis.GeoLocation{
		Longitude: longitude,
		Latitude:  latitude,
		Name:      member,
	}).Err()
}

// GeoRemove removes a member from a geo set, reporting whether a removal
// occurred. Removing an absent member is a no-op.
func (r *RedisClient) GeoRemove(ctx context.Context, key, member string) (bool, error) {
	removed, err := r.Client.ZRem(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// GeoNearby finds up to count members within radiusKm of the given point,
// ascending by distance
func (r *RedisClient) GeoNearby(ctx context.Context, key string, latitude, longitude, radiusKm float64, count int) ([]redis.GeoLocation, error) {
	return r.Client.GeoRadius(ctx, key, longitude, latitude, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Count:     count,
		Sort:      "ASC",
	}).Result()
}

// GeoPosition returns a member's coordinates in a geo set, or nil when the
// member is absent
func (r *RedisClient) GeoPosition(ctx context.Context, key, member string) (*models.Location, error) {
	positions, err := r.Client.GeoPos(ctx, key, member).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}
	return &models.Location{
		Latitude:  positions[0].Latitude,
		Longitude: positions[0].Longitude,
	}, nil
}

// ScanKeys returns all keys matching the pattern, iterating the full keyspace
func (r *RedisClient) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := r.Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Watch runs fn under optimistic locking of the given keys. The transaction
// inside fn fails with redis.TxFailedErr when a watched key changed.
func (r *RedisClient) Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	return r.Client.Watch(ctx, fn, keys...)
}

// Close closes the Redis client
func (r *RedisClient) Close() error {
	return r.Client.Close()
}
