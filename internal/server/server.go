// Package server wires the HTTP API: record CRUD, authentication, the
// global search endpoint, dashboard and operational endpoints.
package server

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lawdesk-api/internal/common/auth"
	"lawdesk-api/internal/common/cep"
	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/common/observability"
	"lawdesk-api/internal/common/validation"
	"lawdesk-api/internal/notify"
	"lawdesk-api/internal/repository"
	"lawdesk-api/internal/search"
)

// Server holds every dependency of the HTTP layer.
type Server struct {
	cfg       *config.Config
	log       logger.Logger
	repos     *repository.Repositories
	searcher  search.Searcher
	indexer   *search.Indexer
	validator *validation.Validator
	sessions  *auth.Manager
	toaster   *notify.Toaster
	cep       *cep.Client
	responder *errors.Responder
	obs       *observability.Observability
	pingers   map[string]Pinger

	httpServer *http.Server
}

// Pinger checks that a backing service answers.
type Pinger func(ctx context.Context) error

type Options struct {
	Config    *config.Config
	Logger    logger.Logger
	Repos     *repository.Repositories
	Searcher  search.Searcher
	Indexer   *search.Indexer
	Validator *validation.Validator
	Sessions  *auth.Manager
	Toaster   *notify.Toaster
	CEP       *cep.Client
	Obs       *observability.Observability
	Pingers   map[string]Pinger
}

func New(opts Options) *Server {
	return &Server{
		cfg:       opts.Config,
		log:       opts.Logger,
		repos:     opts.Repos,
		searcher:  opts.Searcher,
		indexer:   opts.Indexer,
		validator: opts.Validator,
		sessions:  opts.Sessions,
		toaster:   opts.Toaster,
		cep:       opts.CEP,
		responder: errors.NewResponder(opts.Logger),
		obs:       opts.Obs,
		pingers:   opts.Pingers,
	}
}

// Routes builds the full handler tree with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Operational endpoints live outside the session wall.
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)

	// Everything below requires a session.
	mux.Handle("POST /api/auth/logout", s.authenticated(s.handleLogout))
	mux.Handle("GET /api/auth/session", s.authenticated(s.handleSession))
	mux.Handle("GET /api/auth/perfil", s.authenticated(s.handleProfile))

	mux.Handle("GET /api/dashboard", s.authenticated(s.handleDashboard))
	mux.Handle("GET /api/search", s.ajaxOnly(s.authenticated(s.handleSearch)))
	mux.Handle("GET /api/cep/{cep}", s.ajaxOnly(s.authenticated(s.handleCEPLookup)))

	// HTML partials consumed by the modal content loader.
	mux.Handle("GET /fragments/clientes/{id}", s.ajaxOnly(s.authenticated(s.handleClientFragment)))
	mux.Handle("GET /fragments/processos/{id}", s.ajaxOnly(s.authenticated(s.handleCaseFragment)))

	mux.Handle("GET /api/clientes", s.authenticated(s.handleClientList))
	mux.Handle("POST /api/clientes", s.authenticated(s.handleClientCreate))
	mux.Handle("GET /api/clientes/export", s.authenticated(s.handleClientExport))
	mux.Handle("GET /api/clientes/{id}", s.authenticated(s.handleClientGet))
	mux.Handle("PUT /api/clientes/{id}", s.authenticated(s.handleClientUpdate))
	mux.Handle("DELETE /api/clientes/{id}", s.authenticated(s.handleClientDeactivate))
	mux.Handle("POST /api/clientes/{id}/reativar", s.authenticated(s.handleClientReactivate))

	mux.Handle("GET /api/processos", s.authenticated(s.handleCaseList))
	mux.Handle("POST /api/processos", s.authenticated(s.handleCaseCreate))
	mux.Handle("GET /api/processos/export", s.authenticated(s.handleCaseExport))
	mux.Handle("GET /api/processos/{id}", s.authenticated(s.handleCaseGet))
	mux.Handle("PUT /api/processos/{id}", s.authenticated(s.handleCaseUpdate))
	mux.Handle("GET /api/processos/{id}/prazos", s.authenticated(s.handleDeadlineList))
	mux.Handle("POST /api/processos/{id}/prazos", s.authenticated(s.handleDeadlineCreate))
	mux.Handle("POST /api/prazos/{id}/cumprir", s.authenticated(s.handleDeadlineComplete))
	mux.Handle("GET /api/processos/{id}/andamentos", s.authenticated(s.handleEventList))
	mux.Handle("POST /api/processos/{id}/andamentos", s.authenticated(s.handleEventCreate))

	mux.Handle("GET /api/documentos", s.authenticated(s.handleDocumentList))
	mux.Handle("POST /api/documentos", s.authenticated(s.handleDocumentCreate))
	mux.Handle("GET /api/documentos/{id}", s.authenticated(s.handleDocumentGet))
	mux.Handle("GET /api/documentos/{id}/versoes", s.authenticated(s.handleDocumentVersions))
	mux.Handle("DELETE /api/documentos/{id}", s.authenticated(s.handleDocumentDelete))

	mux.Handle("GET /api/agenda", s.authenticated(s.handleAppointmentList))
	mux.Handle("POST /api/agenda", s.authenticated(s.handleAppointmentCreate))
	mux.Handle("GET /api/agenda/{id}", s.authenticated(s.handleAppointmentGet))
	mux.Handle("PUT /api/agenda/{id}", s.authenticated(s.handleAppointmentUpdate))
	mux.Handle("DELETE /api/agenda/{id}", s.authenticated(s.handleAppointmentDelete))

	mux.Handle("GET /api/financeiro", s.authenticated(s.handleFinanceList))
	mux.Handle("POST /api/financeiro", s.authenticated(s.handleFinanceCreate))
	mux.Handle("GET /api/financeiro/resumo", s.authenticated(s.handleFinanceSummary))
	mux.Handle("GET /api/financeiro/{id}", s.authenticated(s.handleFinanceGet))
	mux.Handle("POST /api/financeiro/{id}/pagar", s.authenticated(s.handleFinanceMarkPaid))
	mux.Handle("DELETE /api/financeiro/{id}", s.authenticated(s.handleFinanceDelete))

	mux.Handle("GET /api/notificacoes", s.authenticated(s.handleNotificationList))
	mux.Handle("POST /api/notificacoes/{id}/lida", s.authenticated(s.handleNotificationMarkRead))
	mux.Handle("POST /api/notificacoes/lidas", s.authenticated(s.handleNotificationMarkAllRead))

	mux.Handle("GET /api/toasts", s.authenticated(s.handleToastList))

	return s.recoverPanics(s.logRequests(s.csrfGuard(mux)))
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	readTimeout := time.Duration(s.cfg.Server.ReadTimeout) * time.Second
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := time.Duration(s.cfg.Server.WriteTimeout) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.Routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info("http server listening", map[string]interface{}{"addr": s.cfg.Server.Addr()})
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleReady pings every wired backend and answers 503 when one is down.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ready"
	backends := make(map[string]string, len(s.pingers))
	for name, ping := range s.pingers {
		if err := ping(ctx); err != nil {
			backends[name] = err.Error()
			status = http.StatusServiceUnavailable
			overall = "degraded"
			s.log.Warn("readiness check failed", map[string]interface{}{
				"backend": name,
				"error":   err.Error(),
			})
			continue
		}
		backends[name] = "ok"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":   overall,
		"backends": backends,
		"time":     time.Now().Format(time.RFC3339),
	})
}
