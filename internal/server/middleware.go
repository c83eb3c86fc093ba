// internal/server/middleware.go
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lawdesk-api/internal/common/auth"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/metrics"
)

type contextKey string

const sessionContextKey contextKey = "session"

// sessionFrom returns the session stored by the auth middleware.
func sessionFrom(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return sess
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests emits one structured log line per request and feeds the
// Prometheus counters.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		route := r.URL.Path
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), route, strconv.Itoa(rec.status))
			s.obs.RecordDuration(r.Context(), duration, route)
		}

		s.log.Info("request", map[string]interface{}{
			"method":   r.Method,
			"path":     route,
			"status":   rec.status,
			"duration": duration.String(),
		})
	})
}

// recoverPanics converts a handler panic into the standard 500
// envelope instead of tearing the connection down.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", map[string]interface{}{
					"path":  r.URL.Path,
					"panic": rec,
				})
				s.responder.Respond(w, r, errors.NewInternalError(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticated resolves the session cookie and stores the session on
// the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cfg.Session.CookieName)
		if err != nil {
			s.responder.Respond(w, r, errors.NewSessionExpiredError())
			return
		}

		sess, err := s.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			s.responder.Respond(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ajaxOnly guards endpoints the front end only ever calls via fetch.
func (s *Server) ajaxOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			s.responder.Respond(w, r, errors.NewAJAXRequiredError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// csrfGuard rejects mutating requests whose CSRF token does not match
// the session. Requests without a session cookie pass through; the
// auth middleware handles those.
func (s *Server) csrfGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		// Login and registration happen before a session exists.
		if r.URL.Path == "/api/auth/login" || r.URL.Path == "/api/auth/register" {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(s.cfg.Session.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(auth.CSRFHeader)
		if token == "" {
			token = r.PostFormValue("csrfmiddlewaretoken")
		}
		if err := s.sessions.VerifyCSRF(sess, token); err != nil {
			s.responder.Respond(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
