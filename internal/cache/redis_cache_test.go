package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedlearn/session-service/internal/utils"
)

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, utils.NewDevelopmentLogger()), mr
}

type cachedCourses struct {
	Titles []string `json:"titles"`
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := cachedCourses{Titles: []string{"Algebra Basics", "Linear Algebra"}}
	require.NoError(t, c.Set(ctx, "recommend:1:beginner", in, time.Minute))

	var out cachedCourses
	require.NoError(t, c.Get(ctx, "recommend:1:beginner", &out))
	assert.Equal(t, in, out)
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var out cachedCourses
	assert.ErrorIs(t, c.Get(ctx, "missing", &out), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "short", cachedCourses{}, time.Second))
	mr.FastForward(2 * time.Second)
	assert.ErrorIs(t, c.Get(ctx, "short", &out), ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedCourses{}, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var out cachedCourses
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "recommend:1:beginner", cachedCourses{}, time.Minute))
	require.NoError(t, c.Set(ctx, "recommend:1:advanced", cachedCourses{}, time.Minute))
	require.NoError(t, c.Set(ctx, "recommend:2:beginner", cachedCourses{}, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "recommend:1:*"))

	var out cachedCourses
	assert.ErrorIs(t, c.Get(ctx, "recommend:1:beginner", &out), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "recommend:1:advanced", &out), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "recommend:2:beginner", &out))
}
