// internal/repository/cases.go
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

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

const caseColumns = `p.id, p.numero, p.tipo, p.status, p.cliente_id, c.nome, p.parte_contraria, p.tribunal, p.vara, p.juiz, p.advogado_responsavel, p.valor_causa, p.descricao, p.created_at, p.updated_at`

func scanCase(row interface{ Scan(...interface{}) error }) (*models.LawCase, error) {
	var lc models.LawCase
	err := row.Scan(&lc.ID, &lc.Number, &lc.Type, &lc.Status, &lc.ClientID, &lc.ClientName,
		&lc.OpposingParty, &lc.Court, &lc.CourtBranch, &lc.Judge, &lc.Responsible,
		&lc.ClaimAmount, &lc.Description, &lc.CreatedAt, &lc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

func (r *CaseRepository) Create(ctx context.Context, lc *models.LawCase) error {
	lc.ID = uuid.New().String()
	if lc.Status == "" {
		lc.Status = models.CaseStatusActive
	}
	now := time.Now().UTC()
	lc.CreatedAt = now
	lc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO processos (id, numero, tipo, status, cliente_id, parte_contraria, tribunal, vara, juiz, advogado_responsavel, valor_causa, descricao, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		lc.ID, lc.Number, lc.Type, lc.Status, lc.ClientID, lc.OpposingParty,
		lc.Court, lc.CourtBranch, lc.Judge, lc.Responsible, lc.ClaimAmount,
		lc.Description, lc.CreatedAt, lc.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "processos_numero_key") {
			return errors.NewDuplicateCaseNumberError(lc.Number)
		}
		return errors.NewQueryExecutionFailedError("create case", err)
	}
	return nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id string) (*models.LawCase, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+caseColumns+`
		FROM processos p JOIN clientes c ON c.id = p.cliente_id
		WHERE p.id = $1`, id)
	lc, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("processo", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get case", err)
	}
	return lc, nil
}

func (r *CaseRepository) List(ctx context.Context, filter models.CaseFilter) ([]*models.LawCase, error) {
	query := `SELECT ` + caseColumns + ` FROM processos p JOIN clientes c ON c.id = p.cliente_id WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND p.status = $%d`, len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(` AND p.cliente_id = $%d`, len(args))
	}
	if filter.Responsible != "" {
		args = append(args, filter.Responsible)
		query += fmt.Sprintf(` AND p.advogado_responsavel = $%d`, len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (p.numero ILIKE $%d OR c.nome ILIKE $%d OR p.parte_contraria ILIKE $%d)`, n, n, n)
	}

	args = append(args, clampLimit(filter.Limit), filter.Offset)
	query += fmt.Sprintf(` ORDER BY p.updated_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list cases", err)
	}
	defer rows.Close()

	var cases []*models.LawCase
	for rows.Next() {
		lc, err := scanCase(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan case", err)
		}
		cases = append(cases, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list cases", err)
	}
	return cases, nil
}

func (r *CaseRepository) Update(ctx context.Context, lc *models.LawCase) error {
	lc.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE processos
		SET numero = $2, tipo = $3, status = $4, cliente_id = $5, parte_contraria = $6,
		    tribunal = $7, vara = $8, juiz = $9, advogado_responsavel = $10,
		    valor_causa = $11, descricao = $12, updated_at = $13
		WHERE id = $1`,
		lc.ID, lc.Number, lc.Type, lc.Status, lc.ClientID, lc.OpposingParty,
		lc.Court, lc.CourtBranch, lc.Judge, lc.Responsible, lc.ClaimAmount,
		lc.Description, lc.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, "processos_numero_key") {
			return errors.NewDuplicateCaseNumberError(lc.Number)
		}
		return errors.NewQueryExecutionFailedError("update case", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("processo", lc.ID)
	}
	return nil
}

// --- Deadlines ---

func (r *CaseRepository) CreateDeadline(ctx context.Context, d *models.Deadline) error {
	d.ID = uuid.New().String()
	if d.Priority == "" {
		d.Priority = models.PriorityMedium
	}
	d.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prazos (id, processo_id, descricao, data_vencimento, prioridade, cumprido, notificado, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6)`,
		d.ID, d.CaseID, d.Description, d.DueDate, d.Priority, d.CreatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create deadline", err)
	}
	return nil
}

func (r *CaseRepository) ListDeadlines(ctx context.Context, caseID string, pendingOnly bool) ([]*models.Deadline, error) {
	query := `
		SELECT pr.id, pr.processo_id, p.numero, pr.descricao, pr.data_vencimento, pr.prioridade, pr.cumprido, pr.notificado, pr.created_at
		FROM prazos pr JOIN processos p ON p.id = pr.processo_id
		WHERE pr.processo_id = $1`
	if pendingOnly {
		query += ` AND pr.cumprido = FALSE`
	}
	query += ` ORDER BY pr.data_vencimento`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list deadlines", err)
	}
	defer rows.Close()

	return scanDeadlines(rows)
}

// DueDeadlines returns pending, un-notified deadlines due inside the
// window. The reminder dispatcher consumes this.
func (r *CaseRepository) DueDeadlines(ctx context.Context, window time.Duration) ([]*models.Deadline, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pr.id, pr.processo_id, p.numero, pr.descricao, pr.data_vencimento, pr.prioridade, pr.cumprido, pr.notificado, pr.created_at
		FROM prazos pr JOIN processos p ON p.id = pr.processo_id
		WHERE pr.cumprido = FALSE AND pr.notificado = FALSE AND pr.data_vencimento <= $1
		ORDER BY pr.data_vencimento`,
		time.Now().UTC().Add(window))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("due deadlines", err)
	}
	defer rows.Close()

	return scanDeadlines(rows)
}

func scanDeadlines(rows *sql.Rows) ([]*models.Deadline, error) {
	var deadlines []*models.Deadline
	for rows.Next() {
		var d models.Deadline
		err := rows.Scan(&d.ID, &d.CaseID, &d.CaseNumber, &d.Description,
			&d.DueDate, &d.Priority, &d.Done, &d.Notified, &d.CreatedAt)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan deadline", err)
		}
		deadlines = append(deadlines, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("scan deadlines", err)
	}
	return deadlines, nil
}

func (r *CaseRepository) CompleteDeadline(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE prazos SET cumprido = TRUE WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("complete deadline", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("prazo", id)
	}
	return nil
}

func (r *CaseRepository) MarkDeadlineNotified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE prazos SET notificado = TRUE WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark deadline notified", err)
	}
	return nil
}

// --- Case events ---

func (r *CaseRepository) CreateEvent(ctx context.Context, e *models.CaseEvent) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO andamentos (id, processo_id, data, descricao, registrado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.CaseID, e.Date, e.Description, e.RecordedBy, e.CreatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create case event", err)
	}
	return nil
}

func (r *CaseRepository) ListEvents(ctx context.Context, caseID string, limit int) ([]*models.CaseEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, processo_id, data, descricao, registrado_por, created_at
		FROM andamentos WHERE processo_id = $1
		ORDER BY data DESC LIMIT $2`,
		caseID, clampLimit(limit))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list case events", err)
	}
	defer rows.Close()

	var events []*models.CaseEvent
	for rows.Next() {
		var e models.CaseEvent
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Date, &e.Description, &e.RecordedBy, &e.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan case event", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list case events", err)
	}
	return events, nil
}

// ExportCSV streams all cases matching the filter as CSV.
func (r *CaseRepository) ExportCSV(ctx context.Context, w io.Writer, filter models.CaseFilter) error {
	filter.Limit = maxLimit
	filter.Offset = 0

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Número", "Cliente", "Tipo", "Status", "Parte Contrária", "Tribunal", "Advogado", "Valor da Causa"}); err != nil {
		return errors.NewInternalError(err)
	}

	for {
		page, err := r.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, lc := range page {
			record := []string{
				lc.Number, lc.ClientName, lc.Type, string(lc.Status),
				lc.OpposingParty, lc.Court, lc.Responsible, format.Currency(lc.ClaimAmount),
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
