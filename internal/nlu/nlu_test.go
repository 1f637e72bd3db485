package nlu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karimnasser/schedbot/internal/llm"
)

func TestParseFields(t *testing.T) {
	f := ParseFields(`{"duration_minutes": 60, "preferred_time_range": "Afternoon", "title": "Planning", "attendees": ["a@example.com"]}`)

	if f.DurationMinutes == nil || *f.DurationMinutes != 60 {
		t.Errorf("expected duration 60, got %v", f.DurationMinutes)
	}
	if f.PreferredTimeRange != "afternoon" {
		t.Errorf("expected normalized range afternoon, got %q", f.PreferredTimeRange)
	}
	if f.Title != "Planning" {
		t.Errorf("unexpected title %q", f.Title)
	}
	if len(f.Attendees) != 1 {
		t.Errorf("expected 1 attendee, got %d", len(f.Attendees))
	}
}

func TestParseFieldsTimestampForms(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`{"specific_time": "2025-06-20T14:00:00Z"}`, time.Date(2025, 6, 20, 14, 0, 0, 0, time.UTC)},
		{`{"specific_time": "2025-06-20T14:00:00"}`, time.Date(2025, 6, 20, 14, 0, 0, 0, time.UTC)},
		{`{"specific_time": "2025-06-20"}`, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		f := ParseFields(tt.raw)
		if f.SpecificTime == nil {
			t.Errorf("%s: expected a specific time", tt.raw)
			continue
		}
		if !f.SpecificTime.Equal(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.raw, tt.want, *f.SpecificTime)
		}
	}
}

func TestParseFieldsMalformedDegradesToEmpty(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		`{"duration_minutes": "soon"}`,
		"",
	} {
		f := ParseFields(raw)
		if !f.Empty() {
			t.Errorf("%q: expected empty fields, got %+v", raw, f)
		}
	}
}

func TestParseFieldsStripsMarkdownFences(t *testing.T) {
	f := ParseFields("```json\n{\"duration_minutes\": 30}\n```")
	if f.DurationMinutes == nil || *f.DurationMinutes != 30 {
		t.Errorf("expected duration 30 from fenced JSON, got %v", f.DurationMinutes)
	}
}

func TestParseFieldsRejectsUnknownRange(t *testing.T) {
	f := ParseFields(`{"preferred_time_range": "lunchtime"}`)
	if f.PreferredTimeRange != "" {
		t.Errorf("expected unknown range to be dropped, got %q", f.PreferredTimeRange)
	}
}

// scriptedProvider returns canned responses in call order.
type scriptedProvider struct {
	responses []string
	calls     []llm.CompletionRequest
	err       error
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	content := ""
	if len(p.responses) > 0 {
		content = p.responses[0]
		p.responses = p.responses[1:]
	}
	return &llm.CompletionResponse{Content: content}, nil
}

func TestUnderstandCombinesReplyAndExtraction(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Sure — how long should the meeting be?",
		`{"duration_minutes": 60}`,
	}}
	u := NewLLMUnderstander(provider, "test-model")

	res, err := u.Understand(context.Background(), Snapshot{State: "collecting_duration"}, "1 hour")
	if err != nil {
		t.Fatalf("Understand: %v", err)
	}
	if res.Reply != "Sure — how long should the meeting be?" {
		t.Errorf("unexpected reply %q", res.Reply)
	}
	if res.Fields.DurationMinutes == nil || *res.Fields.DurationMinutes != 60 {
		t.Errorf("expected extracted duration 60, got %v", res.Fields.DurationMinutes)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(provider.calls))
	}
	if !provider.calls[1].JSONMode {
		t.Error("extraction call should request JSON mode")
	}
}

func TestUnderstandHistoryWindow(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"ok", "{}"}}
	u := NewLLMUnderstander(provider, "m")

	var history []Turn
	for i := 0; i < 30; i++ {
		history = append(history, Turn{Role: "user", Content: "turn"})
	}

	if _, err := u.Understand(context.Background(), Snapshot{History: history}, "hello"); err != nil {
		t.Fatalf("Understand: %v", err)
	}

	// system + capped history + current turn.
	if got := len(provider.calls[0].Messages); got != 1+historyWindow+1 {
		t.Errorf("expected %d messages, got %d", 1+historyWindow+1, got)
	}
}

func TestUnderstandPropagatesReplyFailure(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("upstream down")}
	u := NewLLMUnderstander(provider, "m")

	if _, err := u.Understand(context.Background(), Snapshot{}, "hi"); err == nil {
		t.Fatal("expected error when reply completion fails")
	}
}

func TestUnderstandToleratesExtractionGarbage(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"reply text", "sorry, no JSON today"}}
	u := NewLLMUnderstander(provider, "m")

	res, err := u.Understand(context.Background(), Snapshot{}, "hi")
	if err != nil {
		t.Fatalf("Understand: %v", err)
	}
	if !res.Fields.Empty() {
		t.Errorf("expected empty fields, got %+v", res.Fields)
	}
}
