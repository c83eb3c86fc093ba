package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/errors"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	cfg := config.SessionConfig{CookieName: "lawdesk_session", TTL: 3600, Secure: false}
	return NewManager(client, cfg), mr
}

func TestSessionLifecycle(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sess, err := m.Create(ctx, "user-1", "maria")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.CSRFToken)

	resolved, err := m.Resolve(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", resolved.UserID)
	assert.Equal(t, "maria", resolved.Username)
	assert.Equal(t, sess.CSRFToken, resolved.CSRFToken)

	require.NoError(t, m.Revoke(ctx, sess.ID))

	_, err = m.Resolve(ctx, sess.ID)
	require.Error(t, err)
	stdErr := err.(*errors.StandardError)
	assert.Equal(t, errors.ErrCodeSessionExpired, stdErr.Code)
}

func TestResolveExpiredSession(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := m.Create(ctx, "user-1", "maria")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = m.Resolve(ctx, sess.ID)
	require.Error(t, err)
	stdErr := err.(*errors.StandardError)
	assert.Equal(t, errors.ErrCodeSessionExpired, stdErr.Code)
}

func TestResolveSlidesExpiry(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := m.Create(ctx, "user-1", "maria")
	require.NoError(t, err)

	mr.FastForward(30 * time.Minute)
	_, err = m.Resolve(ctx, sess.ID)
	require.NoError(t, err)

	// Another 45 minutes would pass the original TTL but not the refreshed one.
	mr.FastForward(45 * time.Minute)
	_, err = m.Resolve(ctx, sess.ID)
	assert.NoError(t, err)
}

func TestVerifyCSRF(t *testing.T) {
	m, _ := newTestManager(t)
	sess := &Session{CSRFToken: "token-abc"}

	assert.NoError(t, m.VerifyCSRF(sess, "token-abc"))

	err := m.VerifyCSRF(sess, "wrong")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCSRFTokenInvalid, err.(*errors.StandardError).Code)

	assert.Error(t, m.VerifyCSRF(sess, ""))
	assert.Error(t, m.VerifyCSRF(nil, "token-abc"))
}

func TestCookies(t *testing.T) {
	m, _ := newTestManager(t)

	w := httptest.NewRecorder()
	m.SetCookie(w, &Session{ID: "abc"})
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "lawdesk_session", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	m.ClearCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3nh4-forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nh4-forte", hash)

	assert.NoError(t, CheckPassword(hash, "s3nh4-forte"))

	err = CheckPassword(hash, "errada")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, err.(*errors.StandardError).Code)
}
