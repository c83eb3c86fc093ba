package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

func TestAppointmentCreateConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agenda").
		WithArgs("Dra. Ana", start, end, "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := NewAppointmentRepository(db)
	err = repo.Create(context.Background(), &models.Appointment{
		Title:       "Audiência",
		StartsAt:    start,
		EndsAt:      end,
		Responsible: "Dra. Ana",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeScheduleConflict, err.(*errors.StandardError).Code)
}

func TestAppointmentCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agenda").
		WithArgs("Dra. Ana", start, end, "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO agenda").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAppointmentRepository(db)
	a := &models.Appointment{
		Title:       "Audiência",
		StartsAt:    start,
		EndsAt:      end,
		Responsible: "Dra. Ana",
		NotifyEmail: true,
		NotifyAhead: 60,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.RecurrenceNone, a.Recurrence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Rescheduling must re-run the overlap check against every other row,
// never counting the appointment being moved as its own conflict.
func TestAppointmentUpdateConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agenda").
		WithArgs("Dra. Ana", start, end, "appt-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := NewAppointmentRepository(db)
	err = repo.Update(context.Background(), &models.Appointment{
		ID:          "appt-1",
		Title:       "Audiência",
		StartsAt:    start,
		EndsAt:      end,
		Responsible: "Dra. Ana",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeScheduleConflict, err.(*errors.StandardError).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentUpdateMovesFreeSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM agenda").
		WithArgs("Dra. Ana", start, end, "appt-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE agenda").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAppointmentRepository(db)
	require.NoError(t, repo.Update(context.Background(), &models.Appointment{
		ID:          "appt-1",
		Title:       "Audiência",
		StartsAt:    start,
		EndsAt:      end,
		Responsible: "Dra. Ana",
		Recurrence:  models.RecurrenceNone,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentUpcoming(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "titulo", "descricao", "inicio", "fim", "local", "responsavel",
		"processo_id", "cliente_id", "notificar_email", "notificar_sms",
		"tempo_notificacao", "notificado", "recorrencia", "created_at", "updated_at",
	}).AddRow("appt-1", "Audiência", "", now.Add(30*time.Minute), now.Add(90*time.Minute),
		"Fórum Central", "Dra. Ana", nil, nil, true, false, 60, false, "nenhuma", now, now)

	mock.ExpectQuery("SELECT (.+) FROM agenda").
		WillReturnRows(rows)

	repo := NewAppointmentRepository(db)
	appts, err := repo.Upcoming(context.Background(), time.Hour)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "Audiência", appts[0].Title)
	assert.True(t, appts[0].NotifyEmail)
}
