package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-api/internal/common/auth"
	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/common/validation"
	"lawdesk-api/internal/models"
	"lawdesk-api/internal/notify"
	"lawdesk-api/internal/repository"
	"lawdesk-api/pkg/registry"
)

type testEnv struct {
	server   *Server
	mock     sqlmock.Sqlmock
	sessions *auth.Manager
	searcher *stubSearcher
	pingErr  error
}

type stubSearcher struct {
	results []models.SearchResult
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Search.MinQueryLength = 2
	cfg.Search.MaxResults = 10
	cfg.Session.CookieName = "lawdesk_session"
	cfg.Session.TTL = 3600
	return cfg
}

func openSchemaRegistry() *registry.SchemaRegistry {
	// Schemaless resources: handler-level validation still applies.
	names := []string{"clientes", "processos", "prazos", "andamentos", "documentos", "agenda", "financeiro", "usuarios"}
	resources := make([]registry.Resource, 0, len(names))
	for _, name := range names {
		resources = append(resources, registry.Resource{Name: name})
	}
	return &registry.SchemaRegistry{Version: "test", Resources: resources}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	redisClient := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	cfg := testConfig()
	sessions := auth.NewManager(redisClient, cfg.Session)
	searcher := &stubSearcher{}
	toaster := notify.NewToaster(time.Minute)
	t.Cleanup(toaster.Close)

	env := &testEnv{mock: mock, sessions: sessions, searcher: searcher}
	srv := New(Options{
		Config:    cfg,
		Logger:    logger.NewNoOpLogger(),
		Repos:     repository.New(db),
		Searcher:  searcher,
		Validator: validation.New(openSchemaRegistry()),
		Sessions:  sessions,
		Toaster:   toaster,
		Pingers: map[string]Pinger{
			"postgres": func(context.Context) error { return env.pingErr },
		},
	})

	env.server = srv
	return env
}

// login creates a session directly and returns the cookie and token.
func (e *testEnv) login(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	sess, err := e.sessions.Create(context.Background(), "user-1", "maria")
	require.NoError(t, err)
	return &http.Cookie{Name: "lawdesk_session", Value: sess.ID}, sess.CSRFToken
}

func (e *testEnv) do(t *testing.T, method, target, body string, cookie *http.Cookie, csrf string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if csrf != "" {
		req.Header.Set(auth.CSRFHeader, csrf)
	}

	w := httptest.NewRecorder()
	e.server.Routes().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/healthz", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/clientes", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestMutatingRequestRequiresCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	w := env.do(t, http.MethodPost, "/api/clientes", `{"nome":"Maria"}`, cookie, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "CSRF_TOKEN_INVALID", decodeBody(t, w)["code"])
}

func TestSearchEndpointShape(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)
	env.searcher.results = []models.SearchResult{
		{ID: "1", Kind: "cliente", Title: "Maria Silva", Subtitle: "123.456.789-01"},
	}

	w := env.do(t, http.MethodGet, "/api/search?q=maria", "", cookie, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	results, ok := body["results"].([]interface{})
	require.True(t, ok, `search responses use the {"results": [...]} shape`)
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "Maria Silva", first["title"])
}

func TestSearchBelowMinimumLengthReturnsEmpty(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	w := env.do(t, http.MethodGet, "/api/search?q=m", "", cookie, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	results := body["results"].([]interface{})
	assert.Empty(t, results)
	assert.Empty(t, env.searcher.queries, "backend must not be queried below the minimum length")
}

func TestClientCreateValidationError(t *testing.T) {
	env := newTestEnv(t)
	cookie, csrf := env.login(t)

	payload := `{"nome":"Maria Silva","cpf_cnpj":"123","tipo":"PF"}`
	w := env.do(t, http.MethodPost, "/api/clientes", payload, cookie, csrf)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_DOCUMENT", body["code"])
}

func TestClientCreateSuccess(t *testing.T) {
	env := newTestEnv(t)
	cookie, csrf := env.login(t)

	env.mock.ExpectExec("INSERT INTO clientes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := `{"nome":"Maria Silva","cpf_cnpj":"12345678901","tipo":"PF"}`
	w := env.do(t, http.MethodPost, "/api/clientes", payload, cookie, csrf)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Cliente cadastrado com sucesso.", body["message"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestClientGetNotFound(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	env.mock.ExpectQuery("SELECT (.+) FROM clientes WHERE id").
		WillReturnError(sql.ErrNoRows)

	w := env.do(t, http.MethodGet, "/api/clientes/missing", "", cookie, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECORD_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestCaseCreateRejectsBadNumber(t *testing.T) {
	env := newTestEnv(t)
	cookie, csrf := env.login(t)

	payload := `{"numero":"123","tipo":"civel","clienteId":"client-1"}`
	w := env.do(t, http.MethodPost, "/api/processos", payload, cookie, csrf)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_CASE_NUMBER", decodeBody(t, w)["code"])
}

func TestDocumentCreateRejectsBadExtension(t *testing.T) {
	env := newTestEnv(t)
	cookie, csrf := env.login(t)

	payload := `{"titulo":"Contrato","nomeArquivo":"contrato.exe"}`
	w := env.do(t, http.MethodPost, "/api/documentos", payload, cookie, csrf)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_FILE_TYPE", decodeBody(t, w)["code"])
}

func TestSessionEndpointReturnsCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	cookie, csrf := env.login(t)

	w := env.do(t, http.MethodGet, "/api/auth/session", "", cookie, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "maria", data["username"])
	assert.Equal(t, csrf, data["csrfToken"])
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie, csrf := env.login(t)

	w := env.do(t, http.MethodPost, "/api/auth/logout", "", cookie, csrf)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/session", "", cookie, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReadyEndpointPingsBackends(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/ready", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ready", body["status"])
	backends := body["backends"].(map[string]interface{})
	assert.Equal(t, "ok", backends["postgres"])
}

func TestReadyEndpointReportsDegradedBackend(t *testing.T) {
	env := newTestEnv(t)
	env.pingErr = context.DeadlineExceeded

	w := env.do(t, http.MethodGet, "/ready", "", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decodeBody(t, w)["status"])
}

func TestSearchRequiresAJAXMarker(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=maria", nil)
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	env.server.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AJAX_REQUIRED", decodeBody(t, w)["code"])
	assert.Empty(t, env.searcher.queries)
}

func TestClientFragmentRendersHTML(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "nome", "cpf_cnpj", "tipo", "email", "telefone", "endereco",
		"cidade", "estado", "cep", "observacoes", "ativo", "created_at", "updated_at", "deactivated_at",
	}).AddRow("client-1", "Maria Silva", "52998224725", "PF", "maria@exemplo.com", "11999998888",
		"", "São Paulo", "SP", "", "", true, now, now, nil)
	env.mock.ExpectQuery("SELECT (.+) FROM clientes WHERE id").WillReturnRows(rows)

	w := env.do(t, http.MethodGet, "/fragments/clientes/client-1", "", cookie, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Maria Silva")
	assert.Contains(t, w.Body.String(), "529.982.247-25", "document must be formatted in fragments")
}

func TestCaseExportStreamsCSV(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "numero", "tipo", "status", "cliente_id", "nome", "parte_contraria",
		"tribunal", "vara", "juiz", "advogado_responsavel", "valor_causa", "descricao",
		"created_at", "updated_at",
	}).AddRow("case-1", "0001234-56.2024.8.26.0100", "civel", "ativo", "client-1", "Maria Silva",
		"Empresa X", "TJSP", "", "", "Dr. Souza", int64(1500000), "", now, now)
	env.mock.ExpectQuery("SELECT (.+) FROM processos p JOIN clientes c").WillReturnRows(rows)

	w := env.do(t, http.MethodGet, "/api/processos/export", "", cookie, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "0001234-56.2024.8.26.0100")
	assert.Contains(t, w.Body.String(), "R$ 15.000,00")
}

func TestProfileHidesPasswordHash(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "nome_completo", "password_hash", "ativo", "created_at", "last_login_at",
	}).AddRow("user-1", "maria", "maria@escritorio.test", "Maria Advogada", "$2a$10$hash", true, now, nil)
	env.mock.ExpectQuery("SELECT (.+) FROM usuarios WHERE id").WillReturnRows(rows)

	w := env.do(t, http.MethodGet, "/api/auth/perfil", "", cookie, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "maria", data["username"])
	assert.NotContains(t, w.Body.String(), "$2a$10$hash")
}
