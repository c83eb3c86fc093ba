// internal/notify/reminder.go
package notify

import (
	"context"
	"fmt"
	"time"

	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/common/metrics"
	"lawdesk-api/internal/models"
	"lawdesk-api/internal/repository"
	"lawdesk-api/pkg/format"
)

// EmailSender is the slice of the SES client the dispatcher needs.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, body string) error
}

// SMSSender is the slice of the SNS client the dispatcher needs.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, senderID, message string) error
}

// Reminder scans for due deadlines and upcoming appointments and sends
// each one once, marking it notified so reruns stay idempotent.
type Reminder struct {
	cases         *repository.CaseRepository
	appointments  *repository.AppointmentRepository
	notifications *repository.NotificationRepository
	email         EmailSender
	sms           SMSSender
	cfg           config.NotificationConfig
	log           logger.Logger
}

func NewReminder(
	cases *repository.CaseRepository,
	appointments *repository.AppointmentRepository,
	notifications *repository.NotificationRepository,
	email EmailSender,
	sms SMSSender,
	cfg config.NotificationConfig,
	log logger.Logger,
) *Reminder {
	return &Reminder{
		cases:         cases,
		appointments:  appointments,
		notifications: notifications,
		email:         email,
		sms:           sms,
		cfg:           cfg,
		log:           log,
	}
}

// Run executes one dispatch pass and returns the number of reminders
// sent. Send failures are logged and skipped so one bad address does
// not block the rest of the batch.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	sent := 0

	deadlines, err := r.cases.DueDeadlines(ctx, time.Duration(r.cfg.Reminder.DeadlineWindow)*24*time.Hour)
	if err != nil {
		return sent, err
	}
	for _, d := range deadlines {
		if err := r.remindDeadline(ctx, d); err != nil {
			r.log.Error("deadline reminder failed", map[string]interface{}{
				"deadlineId": d.ID,
				"error":      err.Error(),
			})
			continue
		}
		sent++
	}

	appts, err := r.appointments.Upcoming(ctx, time.Duration(r.cfg.Reminder.AppointmentAhead)*time.Minute)
	if err != nil {
		return sent, err
	}
	for _, a := range appts {
		if err := r.remindAppointment(ctx, a); err != nil {
			r.log.Error("appointment reminder failed", map[string]interface{}{
				"appointmentId": a.ID,
				"error":         err.Error(),
			})
			continue
		}
		sent++
	}

	return sent, nil
}

// RunForever dispatches on the configured interval until the context
// is cancelled.
func (r *Reminder) RunForever(ctx context.Context) {
	interval := time.Duration(r.cfg.Reminder.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := r.Run(ctx)
			if err != nil {
				r.log.Error("reminder pass failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			if sent > 0 {
				r.log.Info("reminder pass finished", map[string]interface{}{"sent": sent})
			}
		}
	}
}

func (r *Reminder) remindDeadline(ctx context.Context, d *models.Deadline) error {
	subject := fmt.Sprintf("Prazo em %s: processo %s", format.Date(d.DueDate), d.CaseNumber)
	body := fmt.Sprintf("O prazo \"%s\" do processo %s vence em %s (prioridade %s).",
		d.Description, d.CaseNumber, format.Date(d.DueDate), d.Priority)

	if r.cfg.Email.Enabled {
		if err := r.sendEmail(ctx, r.cfg.Email.ToEmail, subject, body); err != nil {
			return err
		}
		metrics.RemindersSentTotal.WithLabelValues(string(models.ChannelEmail)).Inc()
	}

	// The bell menu entry is independent of the outbound channels.
	if err := r.notifications.Create(ctx, &models.Notification{
		UserID:  "all",
		Title:   subject,
		Message: body,
		Link:    "/processos/" + d.CaseID,
	}); err != nil {
		r.log.Warn("bell notification write failed", map[string]interface{}{
			"deadlineId": d.ID,
			"error":      err.Error(),
		})
	}

	return r.cases.MarkDeadlineNotified(ctx, d.ID)
}

func (r *Reminder) remindAppointment(ctx context.Context, a *models.Appointment) error {
	subject := fmt.Sprintf("Compromisso às %s: %s", format.DateTime(a.StartsAt), a.Title)
	body := fmt.Sprintf("Você tem \"%s\" em %s às %s.", a.Title, a.Location, format.DateTime(a.StartsAt))

	if a.NotifyEmail && r.cfg.Email.Enabled {
		if err := r.sendEmail(ctx, r.cfg.Email.ToEmail, subject, body); err != nil {
			return err
		}
		metrics.RemindersSentTotal.WithLabelValues(string(models.ChannelEmail)).Inc()
	}

	if a.NotifySMS && r.cfg.SMS.Enabled && r.cfg.SMS.ToPhone != "" {
		if err := r.sendSMS(ctx, r.cfg.SMS.ToPhone, subject); err != nil {
			return err
		}
		metrics.RemindersSentTotal.WithLabelValues(string(models.ChannelSMS)).Inc()
	}

	return r.appointments.MarkNotified(ctx, a.ID)
}

func (r *Reminder) sendEmail(ctx context.Context, to, subject, body string) error {
	if err := r.email.SendEmail(ctx, r.cfg.Email.FromEmail, to, subject, body); err != nil {
		return errors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (r *Reminder) sendSMS(ctx context.Context, to, message string) error {
	if err := r.sms.SendSMS(ctx, to, r.cfg.SMS.SenderID, message); err != nil {
		return errors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}
