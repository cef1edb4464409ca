// Package session persists the login session (token + cached user record)
// in client-local storage and centralises the corrupt-data purge logic that
// the original site duplicated across pages.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/core/ports"
)

// Storage keys, matching the original site's localStorage layout.
const (
	keyToken = "token"
	keyUser  = "user"
	keyTheme = "theme"
)

// ThemeDark is the only persisted theme value; anything else means light.
const ThemeDark = "dark"

// Manager owns the persisted session. It satisfies ports.SessionSource and
// acts as the token source for the backend client.
type Manager struct {
	store ports.Store
	log   zerolog.Logger
}

func NewManager(store ports.Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// Load returns the stored session. Missing state yields
// domain.ErrNotAuthenticated. Unparseable state is treated as logged out:
// both keys are purged and domain.ErrSessionCorrupt is returned.
func (m *Manager) Load() (*domain.Session, error) {
	token, err := m.store.Get(keyToken)
	if err != nil {
		return nil, err
	}
	userData, err := m.store.Get(keyUser)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 || len(userData) == 0 {
		return nil, domain.ErrNotAuthenticated
	}

	var user domain.User
	if err := json.Unmarshal(userData, &user); err != nil {
		m.log.Warn().Err(err).Msg("stored user record unparseable, purging session")
		_ = m.Clear()
		return nil, domain.ErrSessionCorrupt
	}

	return &domain.Session{Token: string(token), User: user}, nil
}

// Save persists the session created at login or registration time.
func (m *Manager) Save(s *domain.Session) error {
	userData, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := m.store.Set(keyToken, []byte(s.Token)); err != nil {
		return err
	}
	return m.store.Set(keyUser, userData)
}

// Clear removes both session keys. Used on logout and on corrupt state.
func (m *Manager) Clear() error {
	if err := m.store.Delete(keyToken); err != nil {
		return err
	}
	return m.store.Delete(keyUser)
}

// Token returns the bearer token, or "" when logged out or corrupt. The
// backend client calls this on every request.
func (m *Manager) Token() string {
	token, err := m.store.Get(keyToken)
	if err != nil || len(token) == 0 {
		return ""
	}
	return string(token)
}

// Theme returns the persisted theme preference ("dark" or "").
func (m *Manager) Theme() string {
	v, err := m.store.Get(keyTheme)
	if err != nil {
		return ""
	}
	return string(v)
}

// SetTheme persists the theme preference. Empty clears back to light.
func (m *Manager) SetTheme(theme string) error {
	if theme == "" {
		return m.store.Delete(keyTheme)
	}
	return m.store.Set(keyTheme, []byte(theme))
}

// TokenExpiry decodes the JWT payload without verifying the signature and
// returns its expiry. Display only: the guard never gates on it, the backend
// remains the enforcement point.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
