// internal/search/postgres.go
package search

import (
	"context"
	"database/sql"
	"fmt"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/metrics"
	"lawdesk-api/internal/models"
	"lawdesk-api/pkg/format"
)

// PGSearcher is the ILIKE fallback used when the search index is
// disabled or unreachable. It queries clients, cases and documents.
type PGSearcher struct {
	db *sql.DB
}

func NewPGSearcher(db *sql.DB) *PGSearcher {
	return &PGSearcher{db: db}
}

func (s *PGSearcher) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	metrics.SearchQueriesTotal.WithLabelValues("postgres").Inc()

	pattern := "%" + query + "%"
	args := []interface{}{pattern}

	// Only match on the document when the query carries digits; a bare
	// "%" pattern would turn the clientes branch into a match-all.
	clientWhere := `nome ILIKE $1`
	if digits := format.Digits(query); digits != "" {
		args = append(args, digits+"%")
		clientWhere += fmt.Sprintf(` OR cpf_cnpj LIKE $%d`, len(args))
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, 'cliente', nome, cpf_cnpj FROM clientes
		WHERE ativo = TRUE AND (%s)
		UNION ALL
		SELECT p.id, 'processo', p.numero, c.nome FROM processos p
		JOIN clientes c ON c.id = p.cliente_id
		WHERE p.numero ILIKE $1 OR c.nome ILIKE $1 OR p.parte_contraria ILIKE $1
		UNION ALL
		SELECT id, 'documento', titulo, nome_arquivo FROM documentos
		WHERE titulo ILIKE $1 OR nome_arquivo ILIKE $1
		LIMIT $%d`, clientWhere, len(args)),
		args...)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.Kind, &r.Title, &r.Subtitle); err != nil {
			return nil, errors.NewSearchQueryFailedError(err)
		}
		if r.Kind == "cliente" {
			r.Subtitle = format.Document(r.Subtitle)
		}
		r.URL = resultURL(r.Kind, r.ID)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}
	return results, nil
}

func resultURL(kind, id string) string {
	switch kind {
	case "cliente":
		return "/clientes/" + id
	case "processo":
		return "/processos/" + id
	case "documento":
		return "/documentos/" + id
	}
	return ""
}
