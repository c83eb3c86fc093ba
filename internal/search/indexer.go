// internal/search/indexer.go
package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/models"
	"lawdesk-api/pkg/format"
)

// Indexer keeps the Elasticsearch records index in sync with the
// database. Repositories call Index/Delete after writes; the
// index-rebuilder tool calls Rebuild.
type Indexer struct {
	es  *database.ElasticsearchClient
	db  *sql.DB
	log logger.Logger
}

func NewIndexer(es *database.ElasticsearchClient, db *sql.DB, log logger.Logger) *Indexer {
	return &Indexer{es: es, db: db, log: log}
}

type indexDoc struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	URL      string `json:"url"`
}

// Index upserts a single document.
func (ix *Indexer) Index(ctx context.Context, doc models.SearchResult, body string) error {
	payload, err := json.Marshal(indexDoc{
		ID:       doc.ID,
		Kind:     doc.Kind,
		Title:    doc.Title,
		Subtitle: doc.Subtitle,
		Body:     body,
		URL:      doc.URL,
	})
	if err != nil {
		return errors.NewInternalError(err)
	}

	res, err := ix.es.Client.Index(
		ix.es.Index,
		strings.NewReader(string(payload)),
		ix.es.Client.Index.WithContext(ctx),
		ix.es.Client.Index.WithDocumentID(doc.Kind+":"+doc.ID),
	)
	if err != nil {
		return errors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchQueryFailedError(fmt.Errorf("index: %s", res.Status()))
	}
	return nil
}

// Delete removes a record's document from the index.
func (ix *Indexer) Delete(ctx context.Context, kind, id string) error {
	res, err := ix.es.Client.Delete(
		ix.es.Index,
		kind+":"+id,
		ix.es.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return errors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	// 404 on delete is fine: the record was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return errors.NewSearchQueryFailedError(fmt.Errorf("delete: %s", res.Status()))
	}
	return nil
}

// Rebuild re-indexes every client, case and document from the
// database using the bulk API.
func (ix *Indexer) Rebuild(ctx context.Context) (int, error) {
	docs, err := ix.collect(ctx)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	var buf strings.Builder
	for _, doc := range docs {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, ix.es.Index, doc.Kind+":"+doc.ID)
		line, err := json.Marshal(doc)
		if err != nil {
			return 0, errors.NewInternalError(err)
		}
		buf.WriteString(meta)
		buf.WriteByte('\n')
		buf.Write(line)
		buf.WriteByte('\n')
	}

	res, err := ix.es.Client.Bulk(
		strings.NewReader(buf.String()),
		ix.es.Client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, errors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, errors.NewSearchQueryFailedError(fmt.Errorf("bulk: %s", res.Status()))
	}

	ix.log.Info("search index rebuilt", map[string]interface{}{"documents": len(docs)})
	return len(docs), nil
}

func (ix *Indexer) collect(ctx context.Context) ([]indexDoc, error) {
	var docs []indexDoc

	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, nome, cpf_cnpj, COALESCE(observacoes, '') FROM clientes WHERE ativo = TRUE`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("collect clients", err)
	}
	for rows.Next() {
		var id, name, document, notes string
		if err := rows.Scan(&id, &name, &document, &notes); err != nil {
			rows.Close()
			return nil, errors.NewQueryExecutionFailedError("scan client", err)
		}
		docs = append(docs, indexDoc{
			ID: id, Kind: "cliente", Title: name,
			Subtitle: format.Document(document), Body: notes,
			URL: resultURL("cliente", id),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("collect clients", err)
	}

	rows, err = ix.db.QueryContext(ctx, `
		SELECT p.id, p.numero, c.nome, COALESCE(p.descricao, '') || ' ' || COALESCE(p.parte_contraria, '')
		FROM processos p JOIN clientes c ON c.id = p.cliente_id`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("collect cases", err)
	}
	for rows.Next() {
		var id, number, clientName, body string
		if err := rows.Scan(&id, &number, &clientName, &body); err != nil {
			rows.Close()
			return nil, errors.NewQueryExecutionFailedError("scan case", err)
		}
		docs = append(docs, indexDoc{
			ID: id, Kind: "processo", Title: number,
			Subtitle: clientName, Body: body,
			URL: resultURL("processo", id),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("collect cases", err)
	}

	rows, err = ix.db.QueryContext(ctx, `SELECT id, titulo, nome_arquivo FROM documentos`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("collect documents", err)
	}
	for rows.Next() {
		var id, title, fileName string
		if err := rows.Scan(&id, &title, &fileName); err != nil {
			rows.Close()
			return nil, errors.NewQueryExecutionFailedError("scan document", err)
		}
		docs = append(docs, indexDoc{
			ID: id, Kind: "documento", Title: title,
			Subtitle: fileName,
			URL:      resultURL("documento", id),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("collect documents", err)
	}

	return docs, nil
}
