// internal/repository/dashboard.go
package repository

import (
	"context"
	"database/sql"
	"time"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

// DashboardRepository aggregates the landing page counters in one
// round trip per block.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.AddDate(0, 0, 1)
	weekAhead := now.AddDate(0, 0, 7)

	var stats models.DashboardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clientes WHERE ativo = TRUE),
			(SELECT COUNT(*) FROM processos WHERE status = 'ativo'),
			(SELECT COUNT(*) FROM prazos WHERE cumprido = FALSE AND data_vencimento BETWEEN $1 AND $2),
			(SELECT COUNT(*) FROM prazos WHERE cumprido = FALSE AND data_vencimento < $1),
			(SELECT COUNT(*) FROM agenda WHERE inicio >= $3 AND inicio < $4)`,
		now, weekAhead, todayStart, todayEnd).
		Scan(&stats.ActiveClients, &stats.ActiveCases, &stats.UpcomingDeadlines,
			&stats.OverdueDeadlines, &stats.TodayAppointments)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard counters", err)
	}

	events, err := r.recentEvents(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.RecentEvents = events

	deadlines, err := r.nextDeadlines(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.NextDeadlines = deadlines

	return &stats, nil
}

func (r *DashboardRepository) recentEvents(ctx context.Context, limit int) ([]models.CaseEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, processo_id, data, descricao, registrado_por, created_at
		FROM andamentos ORDER BY data DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("recent events", err)
	}
	defer rows.Close()

	var events []models.CaseEvent
	for rows.Next() {
		var e models.CaseEvent
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Date, &e.Description, &e.RecordedBy, &e.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan event", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *DashboardRepository) nextDeadlines(ctx context.Context, limit int) ([]models.Deadline, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pr.id, pr.processo_id, p.numero, pr.descricao, pr.data_vencimento, pr.prioridade, pr.cumprido, pr.notificado, pr.created_at
		FROM prazos pr JOIN processos p ON p.id = pr.processo_id
		WHERE pr.cumprido = FALSE
		ORDER BY pr.data_vencimento LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("next deadlines", err)
	}
	defer rows.Close()

	var deadlines []models.Deadline
	for rows.Next() {
		var d models.Deadline
		err := rows.Scan(&d.ID, &d.CaseID, &d.CaseNumber, &d.Description,
			&d.DueDate, &d.Priority, &d.Done, &d.Notified, &d.CreatedAt)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan deadline", err)
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}
