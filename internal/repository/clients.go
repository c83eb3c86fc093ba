// internal/repository/clients.go
package repository

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
	"lawdesk-api/pkg/format"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, nome, cpf_cnpj, tipo, email, telefone, endereco, cidade, estado, cep, observacoes, ativo, created_at, updated_at, deactivated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var c models.Client
	var deactivatedAt sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Type, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.State, &c.CEP, &c.Notes, &c.Active,
		&c.CreatedAt, &c.UpdatedAt, &deactivatedAt)
	if err != nil {
		return nil, err
	}
	if deactivatedAt.Valid {
		c.DeactivatedAt = &deactivatedAt.Time
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	c.ID = uuid.New().String()
	c.Document = format.Digits(c.Document)
	c.Active = true
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clientes (id, nome, cpf_cnpj, tipo, email, telefone, endereco, cidade, estado, cep, observacoes, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.Name, c.Document, c.Type, c.Email, c.Phone,
		c.Address, c.City, c.State, c.CEP, c.Notes, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "clientes_cpf_cnpj_key") {
			return errors.NewDuplicateDocumentIDError(c.Document)
		}
		return errors.NewQueryExecutionFailedError("create client", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clientes WHERE id = $1`, id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("cliente", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get client", err)
	}
	return c, nil
}

func (r *ClientRepository) GetByDocument(ctx context.Context, document string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clientes WHERE cpf_cnpj = $1`, format.Digits(document))
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("cliente", document)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get client by document", err)
	}
	return c, nil
}

func (r *ClientRepository) List(ctx context.Context, filter models.ClientFilter) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes WHERE 1=1`
	args := []interface{}{}

	if filter.ActiveOnly {
		query += ` AND ativo = TRUE`
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(` AND tipo = $%d`, len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		clause := fmt.Sprintf(`nome ILIKE $%d`, len(args))
		// Only match on the document when the query actually carries
		// digits; a bare "%" pattern would match every client.
		if digits := format.Digits(filter.Query); digits != "" {
			args = append(args, digits+"%")
			clause += fmt.Sprintf(` OR cpf_cnpj LIKE $%d`, len(args))
		}
		query += ` AND (` + clause + `)`
	}

	args = append(args, clampLimit(filter.Limit), filter.Offset)
	query += fmt.Sprintf(` ORDER BY nome LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list clients", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan client", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list clients", err)
	}
	return clients, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	c.Document = format.Digits(c.Document)
	c.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE clientes
		SET nome = $2, cpf_cnpj = $3, tipo = $4, email = $5, telefone = $6,
		    endereco = $7, cidade = $8, estado = $9, cep = $10, observacoes = $11, updated_at = $12
		WHERE id = $1`,
		c.ID, c.Name, c.Document, c.Type, c.Email, c.Phone,
		c.Address, c.City, c.State, c.CEP, c.Notes, c.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "clientes_cpf_cnpj_key") {
			return errors.NewDuplicateDocumentIDError(c.Document)
		}
		return errors.NewQueryExecutionFailedError("update client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("cliente", c.ID)
	}
	return nil
}

// Deactivate soft-deletes a client. A client with active cases cannot
// be deactivated.
func (r *ClientRepository) Deactivate(ctx context.Context, id string) error {
	var activeCases int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processos WHERE cliente_id = $1 AND status = 'ativo'`, id).
		Scan(&activeCases)
	if err != nil {
		return errors.NewQueryExecutionFailedError("count active cases", err)
	}
	if activeCases > 0 {
		return errors.NewClientHasActiveCasesError(id, activeCases)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE clientes SET ativo = FALSE, deactivated_at = $2, updated_at = $2
		WHERE id = $1 AND ativo = TRUE`,
		id, time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("deactivate client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("cliente", id)
	}
	return nil
}

// Reactivate undoes a soft delete.
func (r *ClientRepository) Reactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clientes SET ativo = TRUE, deactivated_at = NULL, updated_at = $2
		WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("reactivate client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("cliente", id)
	}
	return nil
}

// ExportCSV streams all clients matching the filter as CSV.
func (r *ClientRepository) ExportCSV(ctx context.Context, w io.Writer, filter models.ClientFilter) error {
	filter.Limit = maxLimit
	filter.Offset = 0

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Nome", "CPF/CNPJ", "Tipo", "E-mail", "Telefone", "Cidade", "Estado", "Ativo"}); err != nil {
		return errors.NewInternalError(err)
	}

	for {
		page, err := r.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, c := range page {
			active := "Sim"
			if !c.Active {
				active = "Não"
			}
			record := []string{
				c.Name, format.Document(c.Document), string(c.Type),
				c.Email, format.Phone(c.Phone), c.City, c.State, active,
			}
			if err := cw.Write(record); err != nil {
				return errors.NewInternalError(err)
			}
		}
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
