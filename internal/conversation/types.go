package conversation

import (
	"time"

	"github.com/karimnasser/schedbot/internal/calendar"
	"github.com/karimnasser/schedbot/internal/nlu"
)

// State is the dialogue state of a session. Transitions are owned
// exclusively by the Engine.
type State string

const (
	StateInitial                  State = "initial"
	StateCollectingDuration       State = "collecting_duration"
	StateCollectingTimePreference State = "collecting_time_preference"
	StateCheckingAvailability     State = "checking_availability"
	StateConfirmingSlot           State = "confirming_slot"
	StateScheduling               State = "scheduling"
	StateCompleted                State = "completed"
	StateError                    State = "error"
)

// Terminal reports whether the state ends the session's scheduling flow.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateError
}

// MeetingRequest accumulates extracted scheduling parameters across turns.
// Fields fill in incrementally, last write wins; extraction never clears a
// previously known field.
type MeetingRequest struct {
	DurationMinutes    int        `json:"duration_minutes,omitempty"`
	PreferredDate      *time.Time `json:"preferred_date,omitempty"`
	PreferredTimeRange string     `json:"preferred_time_range,omitempty"`
	SpecificTime       *time.Time `json:"specific_time,omitempty"`
	Title              string     `json:"title,omitempty"`
	Description        string     `json:"description,omitempty"`
	Attendees          []string   `json:"attendees,omitempty"`
}

// defaultDurationMinutes is used when a booking proceeds without an
// explicit duration.
const defaultDurationMinutes = 30

// RequestedDuration returns the duration to book, falling back to the
// default when none was collected.
func (m *MeetingRequest) RequestedDuration() int {
	if m.DurationMinutes > 0 {
		return m.DurationMinutes
	}
	return defaultDurationMinutes
}

// merge applies extracted fields last-write-wins. Absent fields leave
// prior values untouched.
func (m *MeetingRequest) merge(f nlu.Fields) {
	if f.DurationMinutes != nil {
		m.DurationMinutes = *f.DurationMinutes
	}
	if f.PreferredDate != nil {
		m.PreferredDate = f.PreferredDate
	}
	if f.PreferredTimeRange != "" {
		m.PreferredTimeRange = f.PreferredTimeRange
	}
	if f.SpecificTime != nil {
		m.SpecificTime = f.SpecificTime
	}
	if f.Title != "" {
		m.Title = f.Title
	}
	if f.Description != "" {
		m.Description = f.Description
	}
	if len(f.Attendees) > 0 {
		m.Attendees = f.Attendees
	}
}

// Entry is one conversation history record.
type Entry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Context is the per-session dialogue state. Access is serialized by the
// session registry; the Engine mutates it only inside a turn.
type Context struct {
	SessionID      string              `json:"session_id"`
	State          State               `json:"state"`
	MeetingRequest *MeetingRequest     `json:"meeting_request,omitempty"`
	History        []Entry             `json:"conversation_history"`
	PresentedSlots []calendar.TimeSlot `json:"current_available_slots,omitempty"`
	LastUserInput  string              `json:"last_user_input,omitempty"`

	historyLimit int
}

// NewContext creates a fresh session context. historyLimit bounds the
// retained history; older entries are dropped as new turns arrive.
func NewContext(sessionID string, historyLimit int) *Context {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Context{
		SessionID:    sessionID,
		State:        StateInitial,
		historyLimit: historyLimit,
	}
}

// appendHistory records an entry, trimming from the front beyond the limit.
func (c *Context) appendHistory(role, content string, at time.Time) {
	c.History = append(c.History, Entry{Role: role, Content: content, Timestamp: at})
	if over := len(c.History) - c.historyLimit; over > 0 {
		c.History = append(c.History[:0:0], c.History[over:]...)
	}
}

// snapshot projects the context for the language-understanding collaborator.
func (c *Context) snapshot() nlu.Snapshot {
	snap := nlu.Snapshot{State: string(c.State)}
	for _, e := range c.History {
		snap.History = append(snap.History, nlu.Turn{Role: e.Role, Content: e.Content})
	}
	return snap
}

// Response is the outcome of one processed turn.
type Response struct {
	Reply                 string   `json:"response"`
	State                 State    `json:"conversation_state"`
	SuggestedActions      []string `json:"suggested_actions,omitempty"`
	RequiresClarification bool     `json:"requires_clarification"`
	AudioResponse         string   `json:"audio_response,omitempty"` // base64, set by the voice gateway
}
