package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "barzinhos/internal/adapters/redis"
	"barzinhos/internal/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestCache_GetSetDel(t *testing.T) {
	mr, c := newClient(t)
	cache := redisad.New(c)
	ctx := context.Background()

	var out []string
	ok, err := cache.Get(ctx, "taxonomy:neighborhoods", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "taxonomy:neighborhoods", []string{"Centro", "Lapa"}, 60))
	ok, err = cache.Get(ctx, "taxonomy:neighborhoods", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Centro", "Lapa"}, out)

	mr.FastForward(61 * time.Second)
	ok, err = cache.Get(ctx, "taxonomy:neighborhoods", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "a", 1, 60))
	require.NoError(t, cache.Set(ctx, "b", 2, 60))
	require.NoError(t, cache.Del(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	require.NoError(t, cache.Del(ctx))
}

func TestNotificationLog_CapsAndOrders(t *testing.T) {
	_, c := newClient(t)
	log := redisad.NewNotificationLog(c, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, log.Append(ctx, domain.NotificationRecord{
			ID: fmt.Sprintf("n%d", i), Kind: domain.NotifyCustom, Status: domain.StatusSent,
		}))
	}

	recs, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "n5", recs[0].ID)
	assert.Equal(t, "n3", recs[2].ID)

	recs, err = log.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "n5", recs[0].ID)
}
