// internal/server/handlers_documents.go
package server

import (
	"net/http"
	"strconv"

	"lawdesk-api/internal/common/validation"
	"lawdesk-api/internal/models"
)

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	docs, err := s.repos.Documents.List(r.Context(), models.DocumentFilter{
		Query:    q.Get("q"),
		CaseID:   q.Get("processo"),
		ClientID: q.Get("cliente"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, docs)
}

func (s *Server) handleDocumentCreate(w http.ResponseWriter, r *http.Request) {
	var d models.Document
	if err := s.decodeValidated(r, "documentos", false, &d); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if err := validation.ValidateDocumentFile(d.FileName); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	d.UploadedBy = sessionFrom(r.Context()).Username
	if err := s.repos.Documents.Create(r.Context(), &d); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if s.indexer != nil {
		err := s.indexer.Index(r.Context(), models.SearchResult{
			ID:       d.ID,
			Kind:     "documento",
			Title:    d.Title,
			Subtitle: d.FileName,
			URL:      "/documentos/" + d.ID,
		}, "")
		if err != nil {
			s.log.Warn("search index update failed", map[string]interface{}{
				"documentId": d.ID,
				"error":      err.Error(),
			})
		}
	}

	s.created(w, "Documento cadastrado com sucesso.", d)
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	d, err := s.repos.Documents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, d)
}

func (s *Server) handleDocumentVersions(w http.ResponseWriter, r *http.Request) {
	d, err := s.repos.Documents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	versions, err := s.repos.Documents.Versions(r.Context(), d.Title, d.CaseID)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, versions)
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.repos.Documents.Delete(r.Context(), id); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	if s.indexer != nil {
		if err := s.indexer.Delete(r.Context(), "documento", id); err != nil {
			s.log.Warn("search index delete failed", map[string]interface{}{"documentId": id, "error": err.Error()})
		}
	}
	s.okMessage(w, "Documento excluído.")
}
