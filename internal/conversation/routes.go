package conversation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the message API routes.
func RegisterRoutes(r chi.Router, gateway *Gateway) {
	r.Route("/api/message", func(r chi.Router) {
		r.Post("/", handleMessage(gateway))
	})
	r.Get("/ws/chat/{sessionID}", gateway.HandleWebSocket)
	r.Get("/ws/voice/{sessionID}", gateway.HandleVoiceWebSocket)
}

func handleMessage(gateway *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.SessionID == "" {
			http.Error(w, `{"error":"session_id is required"}`, http.StatusBadRequest)
			return
		}
		if req.UserQuery == "" && !req.IsVoice {
			http.Error(w, `{"error":"user_query is required"}`, http.StatusBadRequest)
			return
		}

		resp, err := gateway.ProcessMessage(r.Context(), req)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
