package conversation

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/karimnasser/schedbot/internal/voice"
)

// SessionStore is the slice of the session registry the gateway needs:
// exclusive access to one session's context at a time.
type SessionStore interface {
	With(sessionID string, fn func(*Context) error) error
}

// MessageRequest is one inbound user turn, text or voice.
type MessageRequest struct {
	SessionID string `json:"session_id"`
	UserQuery string `json:"user_query"`
	AudioData string `json:"audio_data,omitempty"` // base64
	IsVoice   bool   `json:"is_voice,omitempty"`
}

// Gateway accepts turns from the REST and websocket surfaces, handles the
// voice round-trip, and drives the engine under the session lock.
type Gateway struct {
	engine *Engine
	store  SessionStore
	voice  voice.Service // nil when voice is disabled
}

// NewGateway creates a gateway. voiceSvc may be nil.
func NewGateway(engine *Engine, store SessionStore, voiceSvc voice.Service) *Gateway {
	return &Gateway{engine: engine, store: store, voice: voiceSvc}
}

// ProcessMessage runs one turn end to end. Speech failures never touch
// dialogue state: an unintelligible clip or a failed transcription call
// produces a clarification reply with the session left exactly as it was.
func (g *Gateway) ProcessMessage(ctx context.Context, req MessageRequest) (*Response, error) {
	var resp *Response

	err := g.store.With(req.SessionID, func(c *Context) error {
		input := req.UserQuery

		if req.IsVoice && req.AudioData != "" {
			text, ok := g.transcribe(ctx, c.SessionID, req.AudioData)
			if !ok {
				resp = &Response{
					Reply:                 msgDidNotCatch,
					State:                 c.State,
					RequiresClarification: true,
				}
				return nil
			}
			input = text
		}

		resp = g.engine.ProcessTurn(ctx, c, input)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.IsVoice && g.voice != nil {
		g.attachAudio(ctx, resp)
	}

	return resp, nil
}

// transcribe decodes and transcribes a voice payload. The false return
// covers bad encoding, collaborator failure, and empty transcripts alike.
func (g *Gateway) transcribe(ctx context.Context, sessionID, audioData string) (string, bool) {
	if g.voice == nil {
		log.Printf("conversation: voice turn for session %s but voice is disabled", sessionID)
		return "", false
	}

	audio, err := base64.StdEncoding.DecodeString(audioData)
	if err != nil {
		log.Printf("conversation: bad audio payload for session %s: %v", sessionID, err)
		return "", false
	}

	text, err := g.voice.SpeechToText(ctx, audio)
	if err != nil {
		log.Printf("conversation: transcription failed for session %s: %v", sessionID, err)
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// attachAudio synthesizes the reply; failures degrade to text-only.
func (g *Gateway) attachAudio(ctx context.Context, resp *Response) {
	audio, err := g.voice.TextToSpeech(ctx, resp.Reply)
	if err != nil {
		log.Printf("conversation: speech synthesis failed: %v", err)
		return
	}
	resp.AudioResponse = base64.StdEncoding.EncodeToString(audio)
}
