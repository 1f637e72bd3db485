package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/karimnasser/schedbot/internal/conversation"
)

// RegisterRoutes mounts the session API routes.
func RegisterRoutes(r chi.Router, registry *Registry) {
	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", handleCreate(registry))
		r.Get("/{sessionID}", handleGet(registry))
		r.Delete("/{sessionID}", handleDelete(registry))
	})
}

func handleCreate(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		now := time.Now()
		sess := Session{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Description: req.Description,
			StartDate:   now,
			EndDate:     now.Add(time.Hour),
			Status:      "active",
		}

		// Materialize the dialogue context up front so a later GET sees
		// the session even before its first turn.
		registry.With(sess.ID, func(*conversation.Context) error { return nil })

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)
	}
}

func handleGet(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var payload []byte
		found := registry.View(sessionID, func(c *conversation.Context) {
			payload, _ = json.Marshal(c)
		})
		if !found {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

func handleDelete(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if !registry.Delete(sessionID) {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "session cleared successfully"})
	}
}
