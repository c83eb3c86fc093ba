// internal/common/auth/sessions.go
// Package auth implements Redis-backed login sessions and the CSRF
// tokens required on mutating requests.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/errors"
	"lawdesk-api/internal/common/metrics"
)

// CSRFHeader carries the per-session token on mutating requests. Forms
// may send the same value in the "csrfmiddlewaretoken" field instead.
const CSRFHeader = "X-CSRFToken"

// Session is the server-side state behind one login cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	CSRFToken string    `json:"csrfToken"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manager issues, resolves and revokes sessions.
type Manager struct {
	redis *database.RedisClient
	cfg   config.SessionConfig
}

func NewManager(redisClient *database.RedisClient, cfg config.SessionConfig) *Manager {
	return &Manager{redis: redisClient, cfg: cfg}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return time.Duration(m.cfg.TTL) * time.Second
}

// Create opens a new session for the user and returns it with a fresh
// CSRF token bound to it.
func (m *Manager) Create(ctx context.Context, userID, username string) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		CSRFToken: uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if err := m.redis.Set(ctx, sessionKey(sess.ID), data, m.TTL()); err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	metrics.SessionsActive.Inc()
	return sess, nil
}

// Resolve loads the session for a cookie value and slides its expiry.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	data, err := m.redis.Get(ctx, sessionKey(sessionID))
	if err == redis.Nil {
		return nil, errors.NewSessionExpiredError()
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Sliding expiration: activity keeps the session alive.
	if err := m.redis.Expire(ctx, sessionKey(sessionID), m.TTL()); err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}
	return &sess, nil
}

// Revoke destroys a session on logout.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if err := m.redis.Del(ctx, sessionKey(sessionID)); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	metrics.SessionsActive.Dec()
	return nil
}

// VerifyCSRF compares a submitted token with the session's token.
func (m *Manager) VerifyCSRF(sess *Session, token string) error {
	if token == "" || sess == nil || token != sess.CSRFToken {
		return errors.NewCSRFTokenInvalidError()
	}
	return nil
}

// SetCookie writes the session cookie on a login response.
func (m *Manager) SetCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   m.cfg.TTL,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on logout.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash with a login attempt.
func CheckPassword(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return errors.NewAuthenticationError("usuário ou senha incorretos")
	}
	return nil
}
