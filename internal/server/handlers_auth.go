// internal/server/handlers_auth.go
package server

import (
	"encoding/json"
	"net/http"

	"lawdesk-api/internal/common/auth"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"nomeCompleto"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	body, err := readBody(r)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Username == "" || req.Password == "" {
		s.responder.Respond(w, r, errors.NewAuthenticationError("credenciais ausentes"))
		return
	}

	user, err := s.repos.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// Not-found collapses into the generic credential failure.
		s.responder.Respond(w, r, errors.NewAuthenticationError("usuário ou senha incorretos"))
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	sess, err := s.sessions.Create(r.Context(), user.ID, user.Username)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	_ = s.repos.Users.TouchLogin(r.Context(), user.ID)

	s.sessions.SetCookie(w, sess)
	s.ok(w, map[string]interface{}{
		"username":  user.Username,
		"csrfToken": sess.CSRFToken,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeValidated(r, "usuarios", false, &req); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	if err := s.repos.Users.Create(r.Context(), user); err != nil {
		s.responder.Respond(w, r, err)
		return
	}

	s.created(w, "Usuário cadastrado com sucesso.", map[string]string{"id": user.ID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.sessions.Revoke(r.Context(), sess.ID); err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.sessions.ClearCookie(w)
	s.okMessage(w, "Sessão encerrada.")
}

// handleProfile returns the full account record of the logged-in user.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	user, err := s.repos.Users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.ok(w, user)
}

// handleSession returns the logged-in identity and the CSRF token the
// front end must send on mutating requests.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	s.ok(w, map[string]interface{}{
		"userId":    sess.UserID,
		"username":  sess.Username,
		"csrfToken": sess.CSRFToken,
	})
}
