package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "key", "first"))
	value, ok, err := s.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "first", value)

	require.NoError(t, s.Set(ctx, "key", "second"))
	value, _, err = s.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "second", value)

	require.NoError(t, s.Remove(ctx, "key"))
	_, ok, err = s.Get(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, s.Remove(ctx, "missing"))
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemory())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	testStoreContract(t, NewRedis(client))
}
