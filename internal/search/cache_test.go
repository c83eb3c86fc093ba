package search

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/models"
)

func countingSearcher(calls *int) Searcher {
	return SearcherFunc(func(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
		*calls++
		return resultFor(query), nil
	})
}

func TestCachedSearcherHitSkipsBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	calls := 0
	cached := NewCachedSearcher(countingSearcher(&calls), client, 30*time.Second, logger.NewNoOpLogger())

	first, err := cached.Search(context.Background(), "maria", 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, calls)

	second, err := cached.Search(context.Background(), "maria", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second lookup must come from the cache")
}

func TestCachedSearcherKeyNormalization(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	calls := 0
	cached := NewCachedSearcher(countingSearcher(&calls), client, 30*time.Second, logger.NewNoOpLogger())

	_, err := cached.Search(context.Background(), "Maria ", 10)
	require.NoError(t, err)
	_, err = cached.Search(context.Background(), "maria", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "case and whitespace variants share a cache entry")

	// A different limit is a different entry.
	_, err = cached.Search(context.Background(), "maria", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedSearcherEntryExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	calls := 0
	cached := NewCachedSearcher(countingSearcher(&calls), client, 10*time.Second, logger.NewNoOpLogger())

	_, err := cached.Search(context.Background(), "maria", 10)
	require.NoError(t, err)

	mr.FastForward(time.Minute)

	_, err = cached.Search(context.Background(), "maria", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedSearcherToleratesCacheFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &database.RedisClient{Client: db}

	key := cacheKey("maria", 10)
	mock.ExpectGet(key).SetErr(assert.AnError)

	payload, err := json.Marshal(resultFor("maria"))
	require.NoError(t, err)
	mock.ExpectSet(key, payload, 30*time.Second).SetErr(assert.AnError)

	calls := 0
	cached := NewCachedSearcher(countingSearcher(&calls), client, 30*time.Second, logger.NewNoOpLogger())

	results, err := cached.Search(context.Background(), "maria", 10)
	require.NoError(t, err, "cache failures fall through to the backend")
	require.Len(t, results, 1)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
