// internal/search/elasticsearch.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/metrics"
	"lawdesk-api/internal/models"
)

// ESSearcher runs multi_match queries against the records index.
type ESSearcher struct {
	es *database.ElasticsearchClient
}

func NewESSearcher(es *database.ElasticsearchClient) *ESSearcher {
	return &ESSearcher{es: es}
}

type esHit struct {
	ID     string              `json:"_id"`
	Source models.SearchResult `json:"_source"`
}

type esResponse struct {
	Hits struct {
		Hits []esHit `json:"hits"`
	} `json:"hits"`
}

func (s *ESSearcher) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	metrics.SearchQueriesTotal.WithLabelValues("elasticsearch").Inc()

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "subtitle", "body"},
				"type":   "bool_prefix",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, errors.NewInternalError(err)
	}

	res, err := s.es.Client.Search(
		s.es.Client.Search.WithContext(ctx),
		s.es.Client.Search.WithIndex(s.es.Index),
		s.es.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, errors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("elasticsearch: %s", res.Status()))
	}

	var parsed esResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	results := make([]models.SearchResult, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		r := hit.Source
		if r.ID == "" {
			r.ID = hit.ID
		}
		results = append(results, r)
	}
	return results, nil
}
