package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedReport struct {
	Subject    string  `json:"subject"`
	OverallMPS float64 `json:"overallMPS"`
}

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisCache(client, logger), server
}

func TestRedisCache_SetGet(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "k1", cachedReport{Subject: "Math", OverallMPS: 62.5}, time.Minute)
	require.NoError(t, err)

	var got cachedReport
	require.NoError(t, c.Get(ctx, "k1", &got))
	assert.Equal(t, "Math", got.Subject)
	assert.Equal(t, 62.5, got.OverallMPS)

	server.FastForward(2 * time.Minute)
	err = c.Get(ctx, "k1", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t)

	var got cachedReport
	err := c.Get(context.Background(), "nope", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	keys := []string{
		ReportCacheKey("u1", "Grade 7", "Math", "Q1"),
		ReportCacheKey("u1", "Grade 8", "Science", "Q2"),
		ReportCacheKey("u2", "Grade 7", "Math", "Q1"),
	}
	for _, k := range keys {
		require.NoError(t, c.Set(ctx, k, cachedReport{Subject: "x"}, time.Hour))
	}

	require.NoError(t, c.DeletePattern(ctx, ReportCachePattern("u1")))

	assert.False(t, server.Exists(keys[0]))
	assert.False(t, server.Exists(keys[1]))
	assert.True(t, server.Exists(keys[2]))
}

func TestRedisCache_Delete(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, server.Exists("k"))
}

func TestReportCacheKey_TrimsButKeepsCase(t *testing.T) {
	assert.Equal(t,
		ReportCacheKey("u1", "Grade 7", "Math", "Quarter Exam"),
		ReportCacheKey("u1", " Grade 7 ", "Math", "Quarter Exam "))
	assert.NotEqual(t,
		ReportCacheKey("u1", "Grade 7", "Math", "Quarter Exam"),
		ReportCacheKey("u1", "grade 7", "MATH", "quarter exam"))
	assert.NotEqual(t,
		ReportCacheKey("u1", "Grade 7", "Math", "Q1"),
		ReportCacheKey("u2", "Grade 7", "Math", "Q1"))
}

func TestRedisCache_DeletePatternEscapesUserID(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	victims := []string{
		ReportCacheKey("u1", "Grade 7", "Math", "Q1"),
		ReportCacheKey("u1:x", "Grade 7", "Math", "Q1"),
		ReportCacheKey("ua", "Grade 7", "Math", "Q1"),
	}
	for _, k := range victims {
		require.NoError(t, c.Set(ctx, k, cachedReport{Subject: "x"}, time.Hour))
	}

	for _, userID := range []string{"*", "u?", "u[1a]", "u1"} {
		own := ReportCacheKey(userID, "Grade 7", "Math", "Q1")
		require.NoError(t, c.Set(ctx, own, cachedReport{Subject: "mine"}, time.Hour))

		require.NoError(t, c.DeletePattern(ctx, ReportCachePattern(userID)))
		assert.False(t, server.Exists(own), "user %q drops its own entry", userID)
	}

	assert.False(t, server.Exists(victims[0]), "u1 cleared its own report")
	assert.True(t, server.Exists(victims[1]), "u1 must not clear u1:x")
	assert.True(t, server.Exists(victims[2]), "glob user ids must not clear ua")
}
