// internal/models/appointment.go
package models

import "time"

// Recurrence of an appointment.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "nenhuma"
	RecurrenceDaily   Recurrence = "diaria"
	RecurrenceWeekly  Recurrence = "semanal"
	RecurrenceMonthly Recurrence = "mensal"
)

// Appointment is a calendar entry: hearing, meeting or internal task.
type Appointment struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"titulo" db:"titulo"`
	Description string     `json:"descricao,omitempty" db:"descricao"`
	StartsAt    time.Time  `json:"inicio" db:"inicio"`
	EndsAt      time.Time  `json:"fim" db:"fim"`
	Location    string     `json:"local,omitempty" db:"local"`
	Responsible string     `json:"responsavel" db:"responsavel"`
	CaseID      string     `json:"processoId,omitempty" db:"processo_id"`
	ClientID    string     `json:"clienteId,omitempty" db:"cliente_id"`
	NotifyEmail bool       `json:"notificarEmail" db:"notificar_email"`
	NotifySMS   bool       `json:"notificarSms" db:"notificar_sms"`
	NotifyAhead int        `json:"tempoNotificacao" db:"tempo_notificacao"` // minutos
	Notified    bool       `json:"notificado" db:"notificado"`
	Recurrence  Recurrence `json:"recorrencia" db:"recorrencia"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Duration of the appointment.
func (a *Appointment) Duration() time.Duration {
	return a.EndsAt.Sub(a.StartsAt)
}

// IsToday reports whether the appointment starts on the given day.
func (a *Appointment) IsToday(now time.Time) bool {
	y1, m1, d1 := a.StartsAt.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (a *Appointment) IsPast(now time.Time) bool {
	return a.EndsAt.Before(now)
}

// Occurrences materializes the start times of a recurring appointment
// up to the horizon, the stored row included. Non-recurring entries
// yield a single occurrence.
func (a *Appointment) Occurrences(until time.Time) []time.Time {
	out := []time.Time{a.StartsAt}
	if a.Recurrence == RecurrenceNone || a.Recurrence == "" {
		return out
	}

	next := a.StartsAt
	for {
		switch a.Recurrence {
		case RecurrenceDaily:
			next = next.AddDate(0, 0, 1)
		case RecurrenceWeekly:
			next = next.AddDate(0, 0, 7)
		case RecurrenceMonthly:
			next = next.AddDate(0, 1, 0)
		}
		if next.After(until) {
			return out
		}
		out = append(out, next)
	}
}

// AppointmentFilter narrows calendar listings.
type AppointmentFilter struct {
	Responsible string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}
