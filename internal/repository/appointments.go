// internal/repository/appointments.go
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

type AppointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, titulo, descricao, inicio, fim, local, responsavel, processo_id, cliente_id, notificar_email, notificar_sms, tempo_notificacao, notificado, recorrencia, created_at, updated_at`

func scanAppointment(row interface{ Scan(...interface{}) error }) (*models.Appointment, error) {
	var a models.Appointment
	var caseID, clientID sql.NullString
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.StartsAt, &a.EndsAt,
		&a.Location, &a.Responsible, &caseID, &clientID,
		&a.NotifyEmail, &a.NotifySMS, &a.NotifyAhead, &a.Notified,
		&a.Recurrence, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.CaseID = caseID.String
	a.ClientID = clientID.String
	return &a, nil
}

// checkConflict fails when the responsible person already has an entry
// overlapping [StartsAt, EndsAt), ignoring the row excludeID.
func (r *AppointmentRepository) checkConflict(ctx context.Context, a *models.Appointment, excludeID string) error {
	var conflicts int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM agenda
		WHERE responsavel = $1 AND inicio < $3 AND fim > $2 AND id <> $4`,
		a.Responsible, a.StartsAt, a.EndsAt, excludeID).Scan(&conflicts)
	if err != nil {
		return errors.NewQueryExecutionFailedError("check schedule conflict", err)
	}
	if conflicts > 0 {
		return errors.NewScheduleConflictError(a.Responsible)
	}
	return nil
}

// Create inserts an appointment after checking the responsible person
// has no overlapping entry.
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	if err := r.checkConflict(ctx, a, ""); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	if a.Recurrence == "" {
		a.Recurrence = models.RecurrenceNone
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agenda (`+appointmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, $13, $14, $15)`,
		a.ID, a.Title, a.Description, a.StartsAt, a.EndsAt, a.Location,
		a.Responsible, nullable(a.CaseID), nullable(a.ClientID),
		a.NotifyEmail, a.NotifySMS, a.NotifyAhead, a.Recurrence, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM agenda WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewRecordNotFoundError("compromisso", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get appointment", err)
	}
	return a, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM agenda WHERE 1=1`
	args := []interface{}{}

	if filter.Responsible != "" {
		args = append(args, filter.Responsible)
		query += fmt.Sprintf(` AND responsavel = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(` AND fim >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(` AND inicio <= $%d`, len(args))
	}

	args = append(args, clampLimit(filter.Limit), filter.Offset)
	query += fmt.Sprintf(` ORDER BY inicio LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list appointments", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Upcoming returns un-notified appointments whose notification window
// has opened. The reminder dispatcher consumes this.
func (r *AppointmentRepository) Upcoming(ctx context.Context, ahead time.Duration) ([]*models.Appointment, error) {
	now := time.Now().UTC()
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+` FROM agenda
		WHERE notificado = FALSE AND inicio > $1 AND inicio <= $2
		  AND (notificar_email = TRUE OR notificar_sms = TRUE)
		ORDER BY inicio`,
		now, now.Add(ahead))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("upcoming appointments", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func scanAppointments(rows *sql.Rows) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan appointment", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("scan appointments", err)
	}
	return appts, nil
}

// Update rewrites an appointment, re-running the overlap check against
// every other entry so rescheduling cannot introduce a conflict.
func (r *AppointmentRepository) Update(ctx context.Context, a *models.Appointment) error {
	if err := r.checkConflict(ctx, a, a.ID); err != nil {
		return err
	}

	a.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE agenda
		SET titulo = $2, descricao = $3, inicio = $4, fim = $5, local = $6,
		    responsavel = $7, processo_id = $8, cliente_id = $9,
		    notificar_email = $10, notificar_sms = $11, tempo_notificacao = $12,
		    recorrencia = $13, updated_at = $14
		WHERE id = $1`,
		a.ID, a.Title, a.Description, a.StartsAt, a.EndsAt, a.Location,
		a.Responsible, nullable(a.CaseID), nullable(a.ClientID),
		a.NotifyEmail, a.NotifySMS, a.NotifyAhead, a.Recurrence, a.UpdatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("update appointment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("compromisso", a.ID)
	}
	return nil
}

func (r *AppointmentRepository) MarkNotified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE agenda SET notificado = TRUE WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark appointment notified", err)
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agenda WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("delete appointment", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewRecordNotFoundError("compromisso", id)
	}
	return nil
}
