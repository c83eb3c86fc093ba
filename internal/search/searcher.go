// Package search implements the global record search: an Elasticsearch
// backend with a PostgreSQL fallback, a Redis result cache, and the
// live-search client used by type-ahead fields.
package search

import (
	"context"

	"lawdesk-api/internal/models"
)

// Searcher answers a free-text query with ranked record results.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, limit int) ([]models.SearchResult, error)

func (f SearcherFunc) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	return f(ctx, query, limit)
}
