package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mu        sync.Mutex
	shown     []Toast
	dismissed []string
}

func (l *recordingListener) ToastShown(t Toast) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shown = append(l.shown, t)
}

func (l *recordingListener) ToastDismissed(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dismissed = append(l.dismissed, id)
}

func (l *recordingListener) dismissedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.dismissed)
}

func TestToasterStacking(t *testing.T) {
	toaster := NewToaster(time.Hour)
	defer toaster.Close()

	id1 := toaster.Success("Cliente salvo com sucesso.")
	id2 := toaster.Warning("Prazo vence amanhã.")

	active := toaster.Active()
	require.Len(t, active, 2)
	assert.Equal(t, id1, active[0].ID)
	assert.Equal(t, id2, active[1].ID)
	assert.Equal(t, SeveritySuccess, active[0].Severity)
	assert.Equal(t, SeverityWarning, active[1].Severity)
}

func TestToasterAutoDismiss(t *testing.T) {
	toaster := NewToaster(20 * time.Millisecond)
	defer toaster.Close()

	listener := &recordingListener{}
	toaster.Subscribe(listener)

	toaster.Info("Carregando...")
	require.Len(t, toaster.Active(), 1)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && listener.dismissedCount() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, listener.dismissedCount())
	assert.Empty(t, toaster.Active())
}

func TestToasterManualDismiss(t *testing.T) {
	toaster := NewToaster(time.Hour)
	defer toaster.Close()

	id := toaster.Error("Erro ao buscar. Tente novamente.")
	toaster.Dismiss(id)
	assert.Empty(t, toaster.Active())

	// Repeated dismiss of the same id is a no-op.
	toaster.Dismiss(id)
	toaster.Dismiss("unknown")
}

func TestToasterCloseRejectsNewToasts(t *testing.T) {
	toaster := NewToaster(time.Hour)
	toaster.Show("antes", SeverityInfo)
	toaster.Close()

	assert.Empty(t, toaster.Show("depois", SeverityInfo))
	assert.Empty(t, toaster.Active())
}
