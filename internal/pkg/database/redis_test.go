package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &RedisClient{Client: client}
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.Set(ctx, "key", "value", 0))

	value, err := client.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	require.NoError(t, client.Delete(ctx, "key"))

	_, err = client.Get(ctx, "key")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	exists, err := client.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, client.Set(ctx, "present", "1", 0))

	exists, err = client.Exists(ctx, "present")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestHashFields(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	fields := map[string]interface{}{"name": "Petar", "city": "Belgrade"}
	require.NoError(t, client.HSetFields(ctx, "person", fields))

	name, err := client.HGet(ctx, "person", "name")
	require.NoError(t, err)
	assert.Equal(t, "Petar", name)

	all, err := client.HGetAll(ctx, "person")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, client.HDelete(ctx, "person", "city"))

	all, err = client.HGetAll(ctx, "person")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHGetAllMissingKey(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	all, err := client.HGetAll(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGeoOperations(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	// Two points in Belgrade roughly 2km apart
	require.NoError(t, client.GeoUpsert(ctx, "geo", "near", 44.8125, 20.4612))
	require.NoError(t, client.GeoUpsert(ctx, "geo", "far", 44.7950, 20.4400))

	position, err := client.GeoPosition(ctx, "geo", "near")
	require.NoError(t, err)
	require.NotNil(t, position)
	assert.InDelta(t, 44.8125, position.Latitude, 0.001)
	assert.InDelta(t, 20.4612, position.Longitude, 0.001)

	results, err := client.GeoNearby(ctx, "geo", 44.8120, 20.4610, 10, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Name)

	removed, err := client.GeoRemove(ctx, "geo", "near")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = client.GeoRemove(ctx, "geo", "near")
	require.NoError(t, err)
	assert.False(t, removed)

	position, err = client.GeoPosition(ctx, "geo", "near")
	require.NoError(t, err)
	assert.Nil(t, position)
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.Set(ctx, "ephemeral", "1", 0))
	require.NoError(t, client.Expire(ctx, "ephemeral", time.Hour))

	ttl, err := client.Client.TTL(ctx, "ephemeral").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
