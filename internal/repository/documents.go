// internal/repository/documents.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, titulo, nome_arquivo, extensao, tamanho, versao, storage_key, processo_id, cliente_id, enviado_por, data_validade, confidencial, created_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.Document, error) {
	var d models.Document
	var caseID, clientID sql.NullString
	var expiresAt sql.NullTime
	err := row.Scan(&d.ID, &d.Title, &d.FileName, &d.Extension, &d.SizeBytes,
		&d.Version, &d.StorageKey, &caseID, &clientID, &d.UploadedBy,
		&expiresAt, &d.Confidential, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.CaseID = caseID.String
	d.ClientID = clientID.String
	if expiresAt.Valid {
		d.ExpiresAt = &expiresAt.Time
	}
	return &d, nil
}

// Create stores a document's metadata. When a document with the same
// title on the same case already exists the version is bumped.
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	d.ID = uuid.New().String()
	d.Extension = strings.ToLower(filepath.Ext(d.FileName))
	d.CreatedAt = time.Now().UTC()

	var latest sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(versao) FROM documentos
		WHERE titulo = $1 AND COALESCE(processo_id, '') = COALESCE($2, '')`,
		d.Title, nullable(d.CaseID)).Scan(&latest)
	if err != nil {
		return errors.NewQueryExecutionFailedError("get document version", err)
	}
	d.Version = int(latest.Int64) + 1

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documentos (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.Title, d.FileName, d.Extension, d.SizeBytes, d.Version,
		d.StorageKey, nullable(d.CaseID), nullable(d.ClientID), d.UploadedBy,
		d.ExpiresAt, d.Confidential, d.CreatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create document", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documentos WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("documento", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get document", err)
	}
	return d, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documentos WHERE 1=1`
	args := []interface{}{}

	if filter.CaseID != "" {
		args = append(args, filter.CaseID)
		query += fmt.Sprintf(` AND processo_id = $%d`, len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(` AND cliente_id = $%d`, len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (titulo ILIKE $%d OR nome_arquivo ILIKE $%d)`, n, n)
	}

	args = append(args, clampLimit(filter.Limit), filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list documents", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan document", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list documents", err)
	}
	return docs, nil
}

// Versions lists every stored version of a document title on a case,
// newest first.
func (r *DocumentRepository) Versions(ctx context.Context, title, caseID string) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documentos
		WHERE titulo = $1 AND COALESCE(processo_id, '') = COALESCE($2, '')
		ORDER BY versao DESC`,
		title, nullable(caseID))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list document versions", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan document", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list document versions", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documentos WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete document", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("documento", id)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
