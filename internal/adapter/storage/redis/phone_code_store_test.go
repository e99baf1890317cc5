package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneCodeStore_Consume_Match(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewPhoneCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", "482910", 5*time.Minute))

	ok, err := store.Consume(ctx, "user-1", "482910")
	require.NoError(t, err)
	assert.True(t, ok, "matching code should consume")

	// Single-use: second attempt fails
	ok, err = store.Consume(ctx, "user-1", "482910")
	require.NoError(t, err)
	assert.False(t, ok, "consumed code should not match again")
}

func TestPhoneCodeStore_Consume_Mismatch(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewPhoneCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", "482910", 5*time.Minute))

	ok, err := store.Consume(ctx, "user-1", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// A wrong guess does not burn the real code
	ok, err = store.Consume(ctx, "user-1", "482910")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPhoneCodeStore_Consume_Expired(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewPhoneCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", "482910", time.Minute))
	s.FastForward(2 * time.Minute)

	ok, err := store.Consume(ctx, "user-1", "482910")
	require.NoError(t, err)
	assert.False(t, ok, "expired code should not match")
}

func TestPhoneCodeStore_Set_ReplacesOutstanding(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewPhoneCodeStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-1", "111111", 5*time.Minute))
	require.NoError(t, store.Set(ctx, "user-1", "222222", 5*time.Minute))

	ok, err := store.Consume(ctx, "user-1", "111111")
	require.NoError(t, err)
	assert.False(t, ok, "replaced code should be invalid")

	ok, err = store.Consume(ctx, "user-1", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}
