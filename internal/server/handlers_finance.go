// internal/server/handlers_finance.go
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lawdesk-api/internal/models"
)

func (s *Server) handleFinanceList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.FinanceFilter{
		Kind:     models.EntryKind(q.Get("tipo")),
		CaseID:   q.Get("processo"),
		ClientID: q.Get("cliente"),
		PaidOnly: q.Get("pagos") == "1",
		OpenOnly: q.Get("abertos") == "1",
		Limit:    limit,
		Offset:   offset,
	}
	if from := q.Get("de"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := q.Get("ate"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t
		}
	}

	entries, err := s.repos.Finance.List(r.Context(), filter)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, entries)
}

func (s *Server) handleFinanceCreate(w http.ResponseWriter, r *http.Request) {
	var entry models.FinancialEntry
	if err := s.decodeValidated(r, "financeiro", false, &entry); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	entries, err := s.repos.Finance.Create(r.Context(), &entry)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	message := "Lançamento cadastrado."
	if len(entries) > 1 {
		message = "Parcelas cadastradas."
	}
	s.created(w, message, entries)
}

func (s *Server) handleFinanceGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.repos.Finance.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, entry)
}

func (s *Server) handleFinanceMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"formaPagamento"`
	}
	if body, err := readBody(r); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &req)
	}

	if err := s.repos.Finance.MarkPaid(r.Context(), r.PathValue("id"), time.Now(), req.PaymentMethod); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Pagamento registrado.")
}

func (s *Server) handleFinanceDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Finance.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Lançamento excluído.")
}

// handleFinanceSummary returns one month's totals; defaults to the
// current month.
func (s *Server) handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year, _ := strconv.Atoi(r.URL.Query().Get("ano"))
	month, _ := strconv.Atoi(r.URL.Query().Get("mes"))
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	summary, err := s.repos.Finance.MonthlySummary(r.Context(), year, month)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, summary)
}
