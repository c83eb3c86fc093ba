// internal/server/handlers_appointments.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

func (s *Server) handleAppointmentList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.AppointmentFilter{
		Responsible: q.Get("responsavel"),
		Limit:       limit,
		Offset:      offset,
	}
	if from := q.Get("de"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err == nil {
			filter.From = t
		}
	}
	if to := q.Get("ate"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err == nil {
			filter.To = t.AddDate(0, 0, 1)
		}
	}

	appts, err := s.repos.Appointments.List(r.Context(), filter)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, appts)
}

func (s *Server) handleAppointmentCreate(w http.ResponseWriter, r *http.Request) {
	var a models.Appointment
	if err := s.decodeValidated(r, "agenda", false, &a); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	if !a.EndsAt.After(a.StartsAt) {
		s.responder.Respond(w, r, errors.NewValidationError([]errors.FieldError{{
			Field:   "fim",
			Message: "o fim deve ser posterior ao início",
			Code:    "INVALID_RANGE",
		}}))
		return
	}

	if err := s.repos.Appointments.Create(r.Context(), &a); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.created(w, "Compromisso agendado.", a)
}

func (s *Server) handleAppointmentGet(w http.ResponseWriter, r *http.Request) {
	a, err := s.repos.Appointments.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, a)
}

func (s *Server) handleAppointmentUpdate(w http.ResponseWriter, r *http.Request) {
	var a models.Appointment
	if err := s.decodeValidated(r, "agenda", true, &a); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	a.ID = r.PathValue("id")

	if err := s.repos.Appointments.Update(r.Context(), &a); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Compromisso atualizado.")
}

func (s *Server) handleAppointmentDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Appointments.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Compromisso excluído.")
}
