// internal/server/handlers_cases.go
package server

import (
	"net/http"
	"strconv"

	"lawdesk-api/internal/common/validation"
	"lawdesk-api/internal/models"
)

func (s *Server) handleCaseList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	cases, err := s.repos.Cases.List(r.Context(), models.CaseFilter{
		Query:       q.Get("q"),
		Status:      models.CaseStatus(q.Get("status")),
		ClientID:    q.Get("cliente"),
		Responsible: q.Get("responsavel"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, cases)
}

func (s *Server) handleCaseExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="processos.csv"`)

	filter := models.CaseFilter{
		Status:      models.CaseStatus(r.URL.Query().Get("status")),
		Responsible: r.URL.Query().Get("responsavel"),
	}
	if err := s.repos.Cases.ExportCSV(r.Context(), w, filter); err != nil {
		s.log.Error("case export failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) handleCaseCreate(w http.ResponseWriter, r *http.Request) {
	var lc models.LawCase
	if err := s.decodeValidated(r, "processos", false, &lc); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if err := validation.ValidateCaseNumber(lc.Number); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	// The client must exist and be active.
	client, err := s.repos.Clients.GetByID(r.Context(), lc.ClientID)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if err := s.repos.Cases.Create(r.Context(), &lc); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	lc.ClientName = client.Name

	s.indexCase(r, &lc)
	s.created(w, "Processo cadastrado com sucesso.", lc)
}

func (s *Server) handleCaseGet(w http.ResponseWriter, r *http.Request) {
	lc, err := s.repos.Cases.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, lc)
}

func (s *Server) handleCaseUpdate(w http.ResponseWriter, r *http.Request) {
	var lc models.LawCase
	if err := s.decodeValidated(r, "processos", true, &lc); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	lc.ID = r.PathValue("id")

	if err := validation.ValidateCaseNumber(lc.Number); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if err := s.repos.Cases.Update(r.Context(), &lc); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	s.indexCase(r, &lc)
	s.okMessage(w, "Processo atualizado com sucesso.")
}

// --- Deadlines ---

func (s *Server) handleDeadlineList(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("pendentes") == "1"
	deadlines, err := s.repos.Cases.ListDeadlines(r.Context(), r.PathValue("id"), pendingOnly)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, deadlines)
}

func (s *Server) handleDeadlineCreate(w http.ResponseWriter, r *http.Request) {
	var d models.Deadline
	if err := s.decodeValidated(r, "prazos", false, &d); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	d.CaseID = r.PathValue("id")

	if err := s.repos.Cases.CreateDeadline(r.Context(), &d); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.created(w, "Prazo cadastrado com sucesso.", d)
}

func (s *Server) handleDeadlineComplete(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Cases.CompleteDeadline(r.Context(), r.PathValue("id")); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Prazo marcado como cumprido.")
}

// --- Case events ---

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.repos.Cases.ListEvents(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, events)
}

func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	var e models.CaseEvent
	if err := s.decodeValidated(r, "andamentos", false, &e); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	e.CaseID = r.PathValue("id")
	if e.RecordedBy == "" {
		e.RecordedBy = sessionFrom(r.Context()).Username
	}

	if err := s.repos.Cases.CreateEvent(r.Context(), &e); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.created(w, "Andamento registrado.", e)
}

func (s *Server) indexCase(r *http.Request, lc *models.LawCase) {
	if s.indexer == nil {
		return
	}
	err := s.indexer.Index(r.Context(), models.SearchResult{
		ID:       lc.ID,
		Kind:     "processo",
		Title:    lc.Number,
		Subtitle: lc.ClientName,
		URL:      "/processos/" + lc.ID,
	}, lc.Description+" "+lc.OpposingParty)
	if err != nil {
		s.log.Warn("search index update failed", map[string]interface{}{
			"caseId": lc.ID,
			"error":  err.Error(),
		})
	}
}
