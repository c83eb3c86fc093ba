// internal/server/handlers_search.go
package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"lawdesk-api/internal/models"
)

// handleSearch answers the live-search endpoint. Responses always use
// the {"results": [...]} shape; a query below the minimum length
// returns an empty result set rather than an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > s.cfg.Search.MaxResults {
		limit = s.cfg.Search.MaxResults
	}

	if len([]rune(query)) < s.cfg.Search.MinQueryLength {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"results": []models.SearchResult{},
		})
		return
	}

	results, err := s.searcher.Search(r.Context(), query, limit)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repos.Dashboard.Stats(r.Context())
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	now := time.Now().UTC()
	summary, err := s.repos.Finance.MonthlySummary(r.Context(), now.Year(), int(now.Month()))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	stats.MonthSummary = *summary

	s.ok(w, stats)
}

// --- Notifications ---

func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	unreadOnly := r.URL.Query().Get("naoLidas") == "1"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifs, err := s.repos.Notifications.ListForUser(r.Context(), sess.UserID, unreadOnly, limit)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, notifs)
}

func (s *Server) handleNotificationMarkRead(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.repos.Notifications.MarkRead(r.Context(), r.PathValue("id"), sess.UserID); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Notificação marcada como lida.")
}

func (s *Server) handleNotificationMarkAllRead(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.repos.Notifications.MarkAllRead(r.Context(), sess.UserID); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.okMessage(w, "Notificações marcadas como lidas.")
}

// handleToastList exposes the active toast stack so the front end can
// render messages produced between page loads.
func (s *Server) handleToastList(w http.ResponseWriter, r *http.Request) {
	s.ok(w, s.toaster.Active())
}
