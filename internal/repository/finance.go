// internal/repository/finance.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

type FinanceRepository struct {
	db *sql.DB
}

func NewFinanceRepository(db *sql.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

const financeColumns = `id, tipo, descricao, valor, data_vencimento, data_pagamento, forma_pagamento, processo_id, cliente_id, categoria, parcela, total_parcelas, grupo_id, created_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.FinancialEntry, error) {
	var e models.FinancialEntry
	var paidAt sql.NullTime
	var caseID, clientID, groupID, method sql.NullString
	err := row.Scan(&e.ID, &e.Kind, &e.Description, &e.Amount, &e.DueDate, &paidAt, &method,
		&caseID, &clientID, &e.Category, &e.Installment, &e.Installments, &groupID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.PaymentMethod = method.String
	if paidAt.Valid {
		e.PaidAt = &paidAt.Time
	}
	e.CaseID = caseID.String
	e.ClientID = clientID.String
	e.GroupID = groupID.String
	return &e, nil
}

// Create inserts one entry, or the whole series when Installments > 1.
// Installment due dates advance month by month and all rows share a
// group id. The series is written in a single transaction.
func (r *FinanceRepository) Create(ctx context.Context, e *models.FinancialEntry) ([]*models.FinancialEntry, error) {
	total := e.Installments
	if total < 1 {
		total = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("begin finance tx", err)
	}
	defer tx.Rollback()

	groupID := ""
	if total > 1 {
		groupID = uuid.New().String()
	}

	now := time.Now().UTC()
	entries := make([]*models.FinancialEntry, 0, total)
	for i := 0; i < total; i++ {
		entry := *e
		entry.ID = uuid.New().String()
		entry.Installment = i + 1
		entry.Installments = total
		entry.GroupID = groupID
		entry.DueDate = e.DueDate.AddDate(0, i, 0)
		entry.CreatedAt = now
		if total > 1 {
			entry.Description = fmt.Sprintf("%s (%d/%d)", e.Description, i+1, total)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO financeiro (`+financeColumns+`)
			VALUES ($1, $2, $3, $4, $5, NULL, NULL, $6, $7, $8, $9, $10, $11, $12)`,
			entry.ID, entry.Kind, entry.Description, entry.Amount, entry.DueDate,
			nullable(entry.CaseID), nullable(entry.ClientID), entry.Category,
			entry.Installment, entry.Installments, nullable(entry.GroupID), entry.CreatedAt)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("create finance entry", err)
		}
		entries = append(entries, &entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("commit finance tx", err)
	}
	return entries, nil
}

func (r *FinanceRepository) GetByID(ctx context.Context, id string) (*models.FinancialEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+financeColumns+` FROM financeiro WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("lançamento", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get finance entry", err)
	}
	return e, nil
}

func (r *FinanceRepository) List(ctx context.Context, filter models.FinanceFilter) ([]*models.FinancialEntry, error) {
	query := `SELECT ` + financeColumns + ` FROM financeiro WHERE 1=1`
	args := []interface{}{}

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += fmt.Sprintf(` AND tipo = $%d`, len(args))
	}
	if filter.CaseID != "" {
		args = append(args, filter.CaseID)
		query += fmt.Sprintf(` AND processo_id = $%d`, len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(` AND cliente_id = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(` AND data_vencimento >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(` AND data_vencimento <= $%d`, len(args))
	}
	if filter.PaidOnly {
		query += ` AND data_pagamento IS NOT NULL`
	}
	if filter.OpenOnly {
		query += ` AND data_pagamento IS NULL`
	}

	args = append(args, clampLimit(filter.Limit), filter.Offset)
	query += fmt.Sprintf(` ORDER BY data_vencimento LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list finance entries", err)
	}
	defer rows.Close()

	var entries []*models.FinancialEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan finance entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("list finance entries", err)
	}
	return entries, nil
}

// MarkPaid records the payment date and method of an open entry.
func (r *FinanceRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time, method string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE financeiro SET data_pagamento = $2, forma_pagamento = $3
		WHERE id = $1 AND data_pagamento IS NULL`,
		id, paidAt.UTC(), nullable(method))
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark entry paid", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("lançamento", id)
	}
	return nil
}

func (r *FinanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM financeiro WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete finance entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("lançamento", id)
	}
	return nil
}

// MonthlySummary totals income and expenses of one calendar month.
func (r *FinanceRepository) MonthlySummary(ctx context.Context, year, month int) (*models.MonthlySummary, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var income, expenses sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(valor) FILTER (WHERE tipo = 'receita'), 0),
			COALESCE(SUM(valor) FILTER (WHERE tipo = 'despesa'), 0)
		FROM financeiro
		WHERE data_vencimento >= $1 AND data_vencimento < $2`,
		from, to).Scan(&income, &expenses)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("monthly summary", err)
	}

	return &models.MonthlySummary{
		Year:     year,
		Month:    month,
		Income:   income.Int64,
		Expenses: expenses.Int64,
		Balance:  income.Int64 - expenses.Int64,
	}, nil
}
