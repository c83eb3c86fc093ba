// internal/server/handlers_clients.go
package server

import (
	"net/http"
	"strconv"

	"lawdesk-api/internal/common/validation"
	"lawdesk-api/internal/models"
	"lawdesk-api/pkg/format"
)

func (s *Server) handleClientList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.ClientFilter{
		Query:      q.Get("q"),
		Type:       models.PersonType(q.Get("tipo")),
		ActiveOnly: q.Get("inativos") != "1",
		Limit:      limit,
		Offset:     offset,
	}

	clients, err := s.repos.Clients.List(r.Context(), filter)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, clients)
}

func (s *Server) handleClientCreate(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := s.decodeValidated(r, "clientes", false, &client); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if err := validation.ValidateDocumentNumber(client.Document, string(client.Type)); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	if client.Email != "" {
		if err := validation.ValidateEmail(client.Email); err != nil {
			s.responder.Respond(w, r, err)
			return
		}
	}
	if client.Phone != "" {
		if err := validation.ValidatePhone(client.Phone); err != nil {
			s.responder.Respond(w, r, err)
			return
		}
	}
	if client.CEP != "" {
		if err := validation.ValidateCEP(client.CEP); err != nil {
			s.responder.Respond(w, r, err)
			return
		}
	}

	if err := s.repos.Clients.Create(r.Context(), &client); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	s.indexClient(r, &client)
	s.created(w, "Cliente cadastrado com sucesso.", client)
}

func (s *Server) handleClientGet(w http.ResponseWriter, r *http.Request) {
	client, err := s.repos.Clients.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, client)
}

func (s *Server) handleClientUpdate(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := s.decodeValidated(r, "clientes", true, &client); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	client.ID = r.PathValue("id")

	if err := validation.ValidateDocumentNumber(client.Document, string(client.Type)); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if err := s.repos.Clients.Update(r.Context(), &client); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	s.indexClient(r, &client)
	s.okMessage(w, "Cliente atualizado com sucesso.")
}

func (s *Server) handleClientDeactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repos.Clients.Deactivate(r.Context(), id); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if s.indexer != nil {
		if err := s.indexer.Delete(r.Context(), "cliente", id); err != nil {
			s.log.Warn("search index delete failed", map[string]interface{}{"clientId": id, "error": err.Error()})
		}
	}
	s.okMessage(w, "Cliente desativado.")
}

func (s *Server) handleClientReactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repos.Clients.Reactivate(r.Context(), id); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if client, err := s.repos.Clients.GetByID(r.Context(), id); err == nil {
		s.indexClient(r, client)
	}
	s.okMessage(w, "Cliente reativado.")
}

func (s *Server) handleClientExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clientes.csv"`)

	filter := models.ClientFilter{ActiveOnly: r.URL.Query().Get("inativos") != "1"}
	if err := s.repos.Clients.ExportCSV(r.Context(), w, filter); err != nil {
		s.log.Error("client export failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) handleCEPLookup(w http.ResponseWriter, r *http.Request) {
	addr, err := s.cep.Lookup(r.Context(), r.PathValue("cep"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, addr)
}

// indexClient upserts a client into the search index, logging rather
// than failing because the write already committed.
func (s *Server) indexClient(r *http.Request, client *models.Client) {
	if s.indexer == nil {
		return
	}
	err := s.indexer.Index(r.Context(), models.SearchResult{
		ID:       client.ID,
		Kind:     "cliente",
		Title:    client.Name,
		Subtitle: format.Document(client.Document),
		URL:      "/clientes/" + client.ID,
	}, client.Notes)
	if err != nil {
		s.log.Warn("search index update failed", map[string]interface{}{
			"clientId": client.ID,
			"error":    err.Error(),
		})
	}
}
