package conversation

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string `json:"type"` // "text", "audio" or "ping"
	Message string `json:"message,omitempty"`
	Data    string `json:"data,omitempty"` // base64 audio
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type                  string   `json:"type"` // "response", "audio", "pong" or "error"
	SessionID             string   `json:"session_id"`
	Content               string   `json:"content,omitempty"`
	Data                  string   `json:"data,omitempty"` // base64 audio
	State                 State    `json:"conversation_state,omitempty"`
	SuggestedActions      []string `json:"suggested_actions,omitempty"`
	RequiresClarification bool     `json:"requires_clarification,omitempty"`
}

// HandleWebSocket serves the chat socket: JSON frames carrying text turns,
// base64 audio turns, or pings.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("conversation: websocket upgrade for session %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("conversation: websocket read for session %s: %v", sessionID, err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			g.sendError(conn, sessionID, "invalid message format")
			continue
		}

		switch req.Type {
		case "text":
			g.handleTurn(conn, r, sessionID, MessageRequest{
				SessionID: sessionID,
				UserQuery: req.Message,
			})
		case "audio":
			g.handleTurn(conn, r, sessionID, MessageRequest{
				SessionID: sessionID,
				AudioData: req.Data,
				IsVoice:   true,
			})
		case "ping":
			g.send(conn, wsResponse{Type: "pong", SessionID: sessionID})
		default:
			g.sendError(conn, sessionID, "unknown message type: "+req.Type)
		}
	}
}

// HandleVoiceWebSocket serves the voice-only socket: binary frames of raw
// audio in, text plus synthesized audio out.
func (g *Gateway) HandleVoiceWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("conversation: voice websocket upgrade for session %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	for {
		_, audio, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("conversation: voice websocket read for session %s: %v", sessionID, err)
			}
			return
		}

		g.handleTurn(conn, r, sessionID, MessageRequest{
			SessionID: sessionID,
			AudioData: base64.StdEncoding.EncodeToString(audio),
			IsVoice:   true,
		})
	}
}

func (g *Gateway) handleTurn(conn *websocket.Conn, r *http.Request, sessionID string, req MessageRequest) {
	resp, err := g.ProcessMessage(r.Context(), req)
	if err != nil {
		g.sendError(conn, sessionID, "processing failed: "+err.Error())
		return
	}

	g.send(conn, wsResponse{
		Type:                  "response",
		SessionID:             sessionID,
		Content:               resp.Reply,
		State:                 resp.State,
		SuggestedActions:      resp.SuggestedActions,
		RequiresClarification: resp.RequiresClarification,
	})

	if resp.AudioResponse != "" {
		g.send(conn, wsResponse{Type: "audio", SessionID: sessionID, Data: resp.AudioResponse})
	}
}

func (g *Gateway) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("conversation: websocket write: %v", err)
	}
}

func (g *Gateway) sendError(conn *websocket.Conn, sessionID, message string) {
	g.send(conn, wsResponse{Type: "error", SessionID: sessionID, Content: message})
}
