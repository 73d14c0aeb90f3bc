package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(accessID string) string { return "u17:session:" + accessID }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateAndHasSession(t *testing.T) {
	m, _ := newTestManager()

	token, err := m.Generate(t.Context(), "jti-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}

	ok, err := m.HasSession(t.Context(), "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected active session, ok=%v err=%v", ok, err)
	}

	ok, err = m.HasSession(t.Context(), "jti-unknown")
	if err != nil || ok {
		t.Fatalf("expected missing session, ok=%v err=%v", ok, err)
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	m, _ := newTestManager()

	token, err := m.Generate(t.Context(), "jti-old")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newID, newToken, err := m.Rotate(t.Context(), "jti-old", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newID == "jti-old" || newToken == token {
		t.Fatal("rotation should mint fresh credentials")
	}

	if ok, _ := m.HasSession(t.Context(), "jti-old"); ok {
		t.Fatal("old session should be gone")
	}
	if ok, _ := m.HasSession(t.Context(), newID); !ok {
		t.Fatal("new session should exist")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.Generate(t.Context(), "jti-x"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := m.Rotate(t.Context(), "jti-x", "not-the-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.Generate(t.Context(), "jti-r"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := m.Revoke(t.Context(), "jti-r"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := m.HasSession(t.Context(), "jti-r"); ok {
		t.Fatal("session should be revoked")
	}
}
