// internal/search/cache.go
package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/common/metrics"
	"lawdesk-api/internal/models"
)

// CachedSearcher memoizes search responses in Redis for a short TTL.
// Cache failures never fail the search; they fall through to the
// backend.
type CachedSearcher struct {
	inner Searcher
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedSearcher(inner Searcher, redisClient *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedSearcher {
	return &CachedSearcher{inner: inner, redis: redisClient, ttl: ttl, log: log}
}

func cacheKey(query string, limit int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("search:%s:%d", hex.EncodeToString(sum[:8]), limit)
}

func (s *CachedSearcher) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	key := cacheKey(query, limit)

	cached, err := s.redis.Get(ctx, key)
	if err == nil {
		var results []models.SearchResult
		if jsonErr := json.Unmarshal([]byte(cached), &results); jsonErr == nil {
			metrics.SearchCacheHitsTotal.Inc()
			return results, nil
		}
	} else if err != redis.Nil {
		s.log.Warn("search cache read failed", map[string]interface{}{"error": err.Error()})
	}

	results, err := s.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(results); jsonErr == nil {
		if setErr := s.redis.Set(ctx, key, data, s.ttl); setErr != nil {
			s.log.Warn("search cache write failed", map[string]interface{}{"error": setErr.Error()})
		}
	}
	return results, nil
}
