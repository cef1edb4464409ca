package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(key string) ([]byte, error) { return m.data[key], nil }

func (m *memStore) Set(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestManagerLoad_Absent(t *testing.T) {
	m := NewManager(newMemStore(), zerolog.Nop())
	if _, err := m.Load(); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestManagerLoad_TokenWithoutUser(t *testing.T) {
	store := newMemStore()
	store.data["token"] = []byte("abc")

	m := NewManager(store, zerolog.Nop())
	if _, err := m.Load(); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestManagerLoad_CorruptUserPurgesSession(t *testing.T) {
	store := newMemStore()
	store.data["token"] = []byte("abc")
	store.data["user"] = []byte("{broken")

	m := NewManager(store, zerolog.Nop())
	if _, err := m.Load(); !errors.Is(err, domain.ErrSessionCorrupt) {
		t.Fatalf("expected ErrSessionCorrupt, got %v", err)
	}
	if _, ok := store.data["token"]; ok {
		t.Fatal("token should be purged on corrupt user record")
	}
	if _, ok := store.data["user"]; ok {
		t.Fatal("user record should be purged on corrupt user record")
	}
}

func TestManagerSaveLoadRoundTrip(t *testing.T) {
	m := NewManager(newMemStore(), zerolog.Nop())
	in := &domain.Session{
		Token: "jwt-token",
		User:  domain.User{ID: 3, Name: "Admin", Email: "admin@rentgrid.test", Role: domain.RoleAdmin},
	}
	if err := m.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Token != in.Token || out.User != in.User {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
	if m.Token() != "jwt-token" {
		t.Fatalf("Token() = %q", m.Token())
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager(newMemStore(), zerolog.Nop())
	if err := m.Save(&domain.Session{Token: "x", User: domain.User{ID: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := m.Load(); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after clear, got %v", err)
	}
	if m.Token() != "" {
		t.Fatalf("Token() should be empty after clear, got %q", m.Token())
	}
}

func TestManagerTheme(t *testing.T) {
	m := NewManager(newMemStore(), zerolog.Nop())
	if m.Theme() != "" {
		t.Fatalf("default theme should be empty, got %q", m.Theme())
	}
	if err := m.SetTheme(ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if m.Theme() != ThemeDark {
		t.Fatalf("theme = %q", m.Theme())
	}
	if err := m.SetTheme(""); err != nil {
		t.Fatalf("clear theme: %v", err)
	}
	if m.Theme() != "" {
		t.Fatalf("theme should clear back to light, got %q", m.Theme())
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, ok := TokenExpiry(signed)
	if !ok {
		t.Fatal("expected expiry from a well-formed token")
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}

	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Fatal("malformed token should yield no expiry")
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1})
	signed, err = noExp.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, ok := TokenExpiry(signed); ok {
		t.Fatal("token without exp should yield no expiry")
	}
}

// guard against accidental key renames; the on-disk layout mirrors the
// browser localStorage the sessions migrated from
func TestStorageKeys(t *testing.T) {
	store := newMemStore()
	m := NewManager(store, zerolog.Nop())
	user := domain.User{ID: 9, Name: "N"}
	if err := m.Save(&domain.Session{Token: "tok", User: user}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if string(store.data["token"]) != "tok" {
		t.Fatalf("token stored under wrong key: %v", store.data)
	}
	var stored domain.User
	if err := json.Unmarshal(store.data["user"], &stored); err != nil || stored.ID != 9 {
		t.Fatalf("user stored under wrong key or shape: %v %v", stored, err)
	}
}
