package modal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// LoadState is the lifecycle of a fragment fetch.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

const (
	loadingPlaceholder = `<div class="text-center p-4">Carregando...</div>`
	errorPlaceholder   = `<div class="text-center p-4 text-danger">Erro ao carregar conteúdo.</div>`
)

// Doer issues HTTP requests; satisfied by *http.Client and the shared
// internal client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ContentLoader fetches an HTML fragment from a URL into a dialog body.
// While the fetch is in flight the body shows a loading placeholder; a
// failed fetch shows an error placeholder and keeps the loader reusable.
type ContentLoader struct {
	client  Doer
	headers http.Header

	mu    sync.Mutex
	state LoadState
	body  string
}

// NewContentLoader creates a loader. Extra headers (AJAX marker, CSRF
// token) are sent on every request.
func NewContentLoader(client Doer, headers http.Header) *ContentLoader {
	return &ContentLoader{client: client, headers: headers}
}

// Load fetches url and injects the response body. It returns the error
// that placed the loader in StateFailed, if any.
func (l *ContentLoader) Load(ctx context.Context, url string) error {
	l.setState(StateLoading, loadingPlaceholder)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		l.setState(StateFailed, errorPlaceholder)
		return fmt.Errorf("build fragment request: %w", err)
	}
	for k, vs := range l.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.setState(StateFailed, errorPlaceholder)
		return fmt.Errorf("fetch fragment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.setState(StateFailed, errorPlaceholder)
		return fmt.Errorf("fetch fragment: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		l.setState(StateFailed, errorPlaceholder)
		return fmt.Errorf("read fragment body: %w", err)
	}

	l.setState(StateLoaded, string(data))
	return nil
}

func (l *ContentLoader) setState(s LoadState, body string) {
	l.mu.Lock()
	l.state = s
	l.body = body
	l.mu.Unlock()
}

// State returns the current load state.
func (l *ContentLoader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Body returns the current dialog body: placeholder or fetched fragment.
func (l *ContentLoader) Body() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.body
}
