package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/repository"
)

type sentMail struct {
	from, to, subject, body string
}

type stubEmail struct {
	mu     sync.Mutex
	inputs []sentMail
	err    error
}

func (s *stubEmail) SendEmail(ctx context.Context, from, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.inputs = append(s.inputs, sentMail{from: from, to: to, subject: subject, body: body})
	return nil
}

type sentSMS struct {
	phone, senderID, message string
}

type stubSMS struct {
	mu     sync.Mutex
	inputs []sentSMS
}

func (s *stubSMS) SendSMS(ctx context.Context, phoneNumber, senderID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, sentSMS{phone: phoneNumber, senderID: senderID, message: message})
	return nil
}

func reminderConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "avisos@escritorio.adv.br"
	cfg.Email.ToEmail = "equipe@escritorio.adv.br"
	cfg.SMS.Enabled = true
	cfg.SMS.ToPhone = "+5511987654321"
	cfg.Reminder.Interval = 60
	cfg.Reminder.DeadlineWindow = 7
	cfg.Reminder.AppointmentAhead = 60
	return cfg
}

func deadlineRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "processo_id", "numero", "descricao", "data_vencimento",
		"prioridade", "cumprido", "notificado", "created_at",
	})
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "titulo", "descricao", "inicio", "fim", "local", "responsavel",
		"processo_id", "cliente_id", "notificar_email", "notificar_sms",
		"tempo_notificacao", "notificado", "recorrencia", "created_at", "updated_at",
	})
}

func TestReminderRunSendsDeadlineEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	due := now.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM prazos").
		WillReturnRows(deadlineRows().
			AddRow("deadline-1", "case-1", "1234567-89.2024.8.26.0100",
				"Contestação", due, "alta", false, false, now))
	mock.ExpectExec("INSERT INTO notificacoes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE prazos SET notificado = TRUE").
		WithArgs("deadline-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM agenda").
		WillReturnRows(appointmentRows())

	email := &stubEmail{}
	smsStub := &stubSMS{}
	repos := repository.New(db)
	r := NewReminder(repos.Cases, repos.Appointments, repos.Notifications,
		email, smsStub, reminderConfig(), logger.NewNoOpLogger())

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, email.inputs, 1)
	assert.Equal(t, "avisos@escritorio.adv.br", email.inputs[0].from)
	assert.Contains(t, email.inputs[0].subject, "1234567-89.2024.8.26.0100")
	assert.Empty(t, smsStub.inputs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed bell-menu write must not abort the reminder: the email went
// out, so the deadline is still marked notified.
func TestReminderRunSurvivesBellWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	due := now.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM prazos").
		WillReturnRows(deadlineRows().
			AddRow("deadline-1", "case-1", "1234567-89.2024.8.26.0100",
				"Contestação", due, "alta", false, false, now))
	mock.ExpectExec("INSERT INTO notificacoes").
		WillReturnError(assert.AnError)
	mock.ExpectExec("UPDATE prazos SET notificado = TRUE").
		WithArgs("deadline-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM agenda").
		WillReturnRows(appointmentRows())

	email := &stubEmail{}
	repos := repository.New(db)
	r := NewReminder(repos.Cases, repos.Appointments, repos.Notifications,
		email, &stubSMS{}, reminderConfig(), logger.NewNoOpLogger())

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, email.inputs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRunSendsAppointmentSMS(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	start := now.Add(30 * time.Minute)

	mock.ExpectQuery("SELECT (.+) FROM prazos").
		WillReturnRows(deadlineRows())
	mock.ExpectQuery("SELECT (.+) FROM agenda").
		WillReturnRows(appointmentRows().
			AddRow("appt-1", "Audiência trabalhista", "", start, start.Add(time.Hour),
				"Fórum Central", "Dra. Ana", nil, nil, false, true, 60, false, "nenhuma", now, now))
	mock.ExpectExec("UPDATE agenda SET notificado = TRUE").
		WithArgs("appt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	email := &stubEmail{}
	smsStub := &stubSMS{}
	repos := repository.New(db)
	r := NewReminder(repos.Cases, repos.Appointments, repos.Notifications,
		email, smsStub, reminderConfig(), logger.NewNoOpLogger())

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	assert.Empty(t, email.inputs)
	require.Len(t, smsStub.inputs, 1)
	assert.Equal(t, "+5511987654321", smsStub.inputs[0].phone)
	assert.Contains(t, smsStub.inputs[0].message, "Audiência trabalhista")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderSendFailureSkipsMarkNotified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM prazos").
		WillReturnRows(deadlineRows().
			AddRow("deadline-1", "case-1", "1234567-89.2024.8.26.0100",
				"Contestação", now.Add(24*time.Hour), "alta", false, false, now))
	mock.ExpectQuery("SELECT (.+) FROM agenda").
		WillReturnRows(appointmentRows())

	email := &stubEmail{err: assert.AnError}
	repos := repository.New(db)
	r := NewReminder(repos.Cases, repos.Appointments, repos.Notifications,
		email, &stubSMS{}, reminderConfig(), logger.NewNoOpLogger())

	sent, err := r.Run(context.Background())
	require.NoError(t, err, "a failed send is logged, not fatal")
	assert.Zero(t, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
