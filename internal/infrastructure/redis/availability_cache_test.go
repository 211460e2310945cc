package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
)

func setupTestCache(t *testing.T) (*AvailabilityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewAvailabilityCache(client), mr
}

func testStay(t *testing.T) reservation.StayRange {
	t.Helper()
	return reservation.NewStayRange(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
	)
}

func TestAvailabilityCache_SetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()
	stay := testStay(t)

	rooms := []*room.Room{
		{ID: 1, RoomNumber: "101", Type: "DELUXE", PricePerNight: 100, IsAvailable: true},
		{ID: 2, RoomNumber: "102", Type: "SUITE", PricePerNight: 250, IsAvailable: true},
	}

	require.NoError(t, cache.Set(ctx, stay, rooms, time.Minute))

	got, err := cache.Get(ctx, stay)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "101", got[0].RoomNumber)
	assert.Equal(t, 250.0, got[1].PricePerNight)
}

func TestAvailabilityCache_Get_Miss(t *testing.T) {
	cache, _ := setupTestCache(t)

	_, err := cache.Get(context.Background(), testStay(t))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestAvailabilityCache_Get_Expired(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	stay := testStay(t)

	require.NoError(t, cache.Set(ctx, stay, []*room.Room{{ID: 1}}, time.Minute))

	// TTL経過後はミスになる
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, stay)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestAvailabilityCache_InvalidateAll(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	stay1 := testStay(t)
	stay2 := reservation.NewStayRange(
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
	)

	require.NoError(t, cache.Set(ctx, stay1, []*room.Room{{ID: 1}}, time.Minute))
	require.NoError(t, cache.Set(ctx, stay2, []*room.Room{{ID: 2}}, time.Minute))

	require.NoError(t, cache.InvalidateAll(ctx))

	_, err := cache.Get(ctx, stay1)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, stay2)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestAvailabilityCache_InvalidateAll_Empty(t *testing.T) {
	cache, _ := setupTestCache(t)

	// キーが無くてもエラーにならない
	assert.NoError(t, cache.InvalidateAll(context.Background()))
}
