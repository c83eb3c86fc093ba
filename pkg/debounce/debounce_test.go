package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]interface{}
}

func (r *recorder) fn(args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
}

func (r *recorder) snapshot() [][]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]interface{}, len(r.calls))
	copy(out, r.calls)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBurstExecutesOnceWithLastArgs(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.fn)

	d.Call("a")
	d.Call("ab")
	d.Call("abc")

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{"abc"}, calls[0])

	// Quiet period: nothing else fires.
	time.Sleep(80 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestSeparateBurstsExecuteSeparately(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.fn)

	d.Call(1)
	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })

	d.Call(2)
	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })

	calls := rec.snapshot()
	assert.Equal(t, []interface{}{1}, calls[0])
	assert.Equal(t, []interface{}{2}, calls[1])
}

func TestStopCancelsPending(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.fn)

	d.Call("never")
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	// Calls after Stop are ignored.
	d.Call("still never")
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestFlushRunsImmediately(t *testing.T) {
	rec := &recorder{}
	d := New(time.Hour, rec.fn)

	d.Call("now")
	d.Flush()

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{"now"}, calls[0])
	assert.False(t, d.Pending())

	// Flush with nothing pending is a no-op.
	d.Flush()
	assert.Len(t, rec.snapshot(), 1)
}

func TestPending(t *testing.T) {
	d := New(50*time.Millisecond, func(args ...interface{}) {})
	assert.False(t, d.Pending())
	d.Call()
	assert.True(t, d.Pending())
	waitFor(t, func() bool { return !d.Pending() })
}

func TestCancelDiscardsPendingButKeepsAccepting(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.fn)

	d.Call("dropped")
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	d.Call("kept")
	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	assert.Equal(t, []interface{}{"kept"}, rec.snapshot()[0])
}
