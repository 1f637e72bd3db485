package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/karimnasser/schedbot/internal/llm"
)

// historyWindow caps how many prior turns are sent to the model.
const historyWindow = 10

// LLMUnderstander implements Understander with two LLM calls per turn:
// a conversational reply and a low-temperature JSON field extraction.
type LLMUnderstander struct {
	provider llm.Provider
	model    string
}

// NewLLMUnderstander creates an LLM-backed understander.
func NewLLMUnderstander(provider llm.Provider, model string) *LLMUnderstander {
	return &LLMUnderstander{provider: provider, model: model}
}

func (u *LLMUnderstander) Understand(ctx context.Context, snapshot Snapshot, rawText string) (*Result, error) {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: assistantSystemPrompt}}

	history := snapshot.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == "assistant" {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: rawText})

	reply, err := u.provider.Complete(ctx, llm.CompletionRequest{
		Model:       u.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("reply completion: %w", err)
	}

	fields := u.extractFields(ctx, rawText)

	return &Result{
		Reply:  strings.TrimSpace(reply.Content),
		Fields: fields,
	}, nil
}

// extractFields asks the model for structured fields. Any failure here
// degrades to an empty extraction; the conversation survives on the
// engine's own parsing.
func (u *LLMUnderstander) extractFields(ctx context.Context, rawText string) Fields {
	resp, err := u.provider.Complete(ctx, llm.CompletionRequest{
		Model: u.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPromptTemplate, rawText)},
		},
		MaxTokens:   200,
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		return Fields{}
	}
	return ParseFields(resp.Content)
}

// extractionPayload is the wire shape the extraction prompt requests.
// Timestamps arrive as ISO strings and are parsed leniently.
type extractionPayload struct {
	DurationMinutes    *int     `json:"duration_minutes"`
	PreferredDate      string   `json:"preferred_date"`
	PreferredTimeRange string   `json:"preferred_time_range"`
	SpecificTime       string   `json:"specific_time"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Attendees          []string `json:"attendees"`
}

// ParseFields parses the extraction model output. Malformed JSON or
// unparseable timestamps produce an empty or partial Fields value, never
// an error.
func ParseFields(content string) Fields {
	// The model may wrap JSON in markdown fences; cut to the outermost object.
	jsonStr := content
	if idx := strings.Index(content, "{"); idx >= 0 {
		jsonStr = content[idx:]
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return Fields{}
	}

	f := Fields{
		DurationMinutes:    payload.DurationMinutes,
		PreferredTimeRange: normalizeRange(payload.PreferredTimeRange),
		Title:              payload.Title,
		Description:        payload.Description,
		Attendees:          payload.Attendees,
	}
	if t, ok := parseTimestamp(payload.PreferredDate); ok {
		f.PreferredDate = &t
	}
	if t, ok := parseTimestamp(payload.SpecificTime); ok {
		f.SpecificTime = &t
	}
	return f
}

var validRanges = map[string]bool{"morning": true, "afternoon": true, "evening": true, "night": true}

func normalizeRange(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if validRanges[s] {
		return s
	}
	return ""
}

// parseTimestamp accepts RFC 3339 as well as the bare forms models tend
// to emit.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
