package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/karimnasser/schedbot/internal/conversation"
)

func TestWithCreatesDefaultContext(t *testing.T) {
	registry := NewRegistry(50)

	err := registry.With("s1", func(c *conversation.Context) error {
		if c.SessionID != "s1" {
			t.Errorf("expected session id s1, got %q", c.SessionID)
		}
		if c.State != conversation.StateInitial {
			t.Errorf("expected initial state, got %q", c.State)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if registry.Len() != 1 {
		t.Errorf("expected 1 session, got %d", registry.Len())
	}
}

func TestWithReturnsSameContext(t *testing.T) {
	registry := NewRegistry(50)

	registry.With("s1", func(c *conversation.Context) error {
		c.LastUserInput = "hello"
		return nil
	})
	registry.With("s1", func(c *conversation.Context) error {
		if c.LastUserInput != "hello" {
			t.Errorf("expected persisted context, got %q", c.LastUserInput)
		}
		return nil
	})
}

func TestViewDoesNotCreate(t *testing.T) {
	registry := NewRegistry(50)
	if registry.View("missing", func(*conversation.Context) {}) {
		t.Error("View should not report a missing session as found")
	}
	if registry.Len() != 0 {
		t.Errorf("View must not create sessions, got %d", registry.Len())
	}
}

func TestDelete(t *testing.T) {
	registry := NewRegistry(50)
	registry.With("s1", func(*conversation.Context) error { return nil })

	if !registry.Delete("s1") {
		t.Error("expected Delete to report true for an existing session")
	}
	if registry.Delete("s1") {
		t.Error("expected Delete to report false for a deleted session")
	}
	if registry.Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", registry.Len())
	}
}

func TestConcurrentTurnsSerializePerSession(t *testing.T) {
	registry := NewRegistry(50)

	const goroutines = 20
	var wg sync.WaitGroup
	var inTurn int

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.With("shared", func(c *conversation.Context) error {
				inTurn++
				if inTurn != 1 {
					t.Error("two turns entered the same session concurrently")
				}
				c.LastUserInput = "turn"
				inTurn--
				return nil
			})
		}()
	}
	wg.Wait()
}

func newTestRouter() (*Registry, *chi.Mux) {
	registry := NewRegistry(50)
	r := chi.NewRouter()
	RegisterRoutes(r, registry)
	return registry, r
}

func TestCreateSessionRoute(t *testing.T) {
	registry, router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/session/", strings.NewReader(`{"name":"Weekly sync","description":"Team planning"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var sess Session
	if err := json.NewDecoder(rec.Body).Decode(&sess); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected a generated session id")
	}
	if sess.Name != "Weekly sync" {
		t.Errorf("unexpected name %q", sess.Name)
	}
	if sess.Status != "active" {
		t.Errorf("unexpected status %q", sess.Status)
	}
	if registry.Len() != 1 {
		t.Errorf("expected the dialogue context to be materialized, got %d sessions", registry.Len())
	}
}

func TestGetSessionRoute(t *testing.T) {
	registry, router := newTestRouter()
	registry.With("s1", func(*conversation.Context) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var ctx conversation.Context
	if err := json.NewDecoder(rec.Body).Decode(&ctx); err != nil {
		t.Fatalf("decoding context: %v", err)
	}
	if ctx.SessionID != "s1" {
		t.Errorf("unexpected session id %q", ctx.SessionID)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing session, got %d", rec.Code)
	}
}

func TestDeleteSessionRoute(t *testing.T) {
	registry, router := newTestRouter()
	registry.With("s1", func(*conversation.Context) error { return nil })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/session/s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/session/s1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", rec.Code)
	}
}
