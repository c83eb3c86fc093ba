package modal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmInvokesOnlyConfirmCallback(t *testing.T) {
	confirmed, cancelled := 0, 0
	d := Confirm(ConfirmOptions{
		Title:     "Excluir cliente",
		Message:   "Tem certeza?",
		OnConfirm: func() { confirmed++ },
		OnCancel:  func() { cancelled++ },
	})

	assert.True(t, d.Open())
	d.Confirm()

	assert.False(t, d.Open())
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, cancelled)

	// Further interaction after close is inert.
	d.Dismiss()
	d.Confirm()
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, cancelled)
}

func TestAnyDismissalInvokesCancel(t *testing.T) {
	confirmed, cancelled := 0, 0
	d := Confirm(ConfirmOptions{
		OnConfirm: func() { confirmed++ },
		OnCancel:  func() { cancelled++ },
	})

	d.Dismiss()

	assert.False(t, d.Open())
	assert.Equal(t, 0, confirmed)
	assert.Equal(t, 1, cancelled)
}

func TestConfirmDefaultLabels(t *testing.T) {
	d := Confirm(ConfirmOptions{Title: "x"})
	confirm, cancel := d.Labels()
	assert.Equal(t, "Confirmar", confirm)
	assert.Equal(t, "Cancelar", cancel)
}

func TestContentLoaderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		w.Write([]byte("<p>detalhes do processo</p>"))
	}))
	defer srv.Close()

	headers := http.Header{}
	headers.Set("X-Requested-With", "XMLHttpRequest")
	l := NewContentLoader(srv.Client(), headers)

	err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, l.State())
	assert.Equal(t, "<p>detalhes do processo</p>", l.Body())
}

func TestContentLoaderFailureShowsErrorPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewContentLoader(srv.Client(), nil)

	err := l.Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, StateFailed, l.State())
	assert.Contains(t, l.Body(), "Erro ao carregar")
}

func TestContentLoaderTransportError(t *testing.T) {
	l := NewContentLoader(&http.Client{}, nil)

	err := l.Load(context.Background(), "http://127.0.0.1:0/nope")
	require.Error(t, err)
	assert.Equal(t, StateFailed, l.State())
}
