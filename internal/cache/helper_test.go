package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	var missed cachedPost
	found, err := GetJSON(ctx, PostKey(1), &missed)
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedPost{ID: 1, Title: "Hello"}
	require.NoError(t, SetJSON(ctx, PostKey(1), want, PostTTL))

	var got cachedPost
	found, err = GetJSON(ctx, PostKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestGetSetJSON_NilClientDegradesGracefully(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	assert.NoError(t, SetJSON(ctx, PostKey(1), cachedPost{ID: 1}, time.Minute))

	var got cachedPost
	found, err := GetJSON(ctx, PostKey(1), &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCacheAside(t *testing.T) {
	setupCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: 2, Title: "Fetched"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, CacheAside(ctx, PostKey(2), &first, PostTTL, fetch(&first)))
	assert.Equal(t, "Fetched", first.Title)
	assert.Equal(t, 1, calls)

	// Second read must come from the cache without another fetch.
	var second cachedPost
	require.NoError(t, CacheAside(ctx, PostKey(2), &second, PostTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestInvalidatePost(t *testing.T) {
	mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedPost{ID: 3}, PostTTL))
	require.NoError(t, SetJSON(ctx, PostSlugKey("hello-world"), cachedPost{ID: 3}, PostTTL))

	InvalidatePost(ctx, 3, "hello-world")

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(PostSlugKey("hello-world")))
}

func TestKeyClass(t *testing.T) {
	assert.Equal(t, "post", keyClass(PostKey(9)))
	assert.Equal(t, "post", keyClass(PostSlugKey("a-b")))
	assert.Equal(t, "categories", keyClass(CategoryTreeKey))
	assert.Equal(t, "plain", keyClass("plain"))
}
