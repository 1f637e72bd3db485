// Package nlu is the language-understanding boundary: it turns a raw user
// turn plus conversation context into a conversational reply and a sparse
// set of extracted scheduling fields.
package nlu

import (
	"context"
	"time"
)

// Turn is one prior exchange entry passed as context.
type Turn struct {
	Role    string
	Content string
}

// Snapshot is the conversation context handed to the understander.
type Snapshot struct {
	State   string
	History []Turn
}

// Fields is the sparse extraction result. Nil pointers and empty values
// mean "not mentioned"; the engine merges present fields last-write-wins
// and never deletes previously known values.
type Fields struct {
	DurationMinutes    *int       `json:"duration_minutes,omitempty"`
	PreferredDate      *time.Time `json:"preferred_date,omitempty"`
	PreferredTimeRange string     `json:"preferred_time_range,omitempty"`
	SpecificTime       *time.Time `json:"specific_time,omitempty"`
	Title              string     `json:"title,omitempty"`
	Description        string     `json:"description,omitempty"`
	Attendees          []string   `json:"attendees,omitempty"`
}

// Empty reports whether no field was extracted.
func (f Fields) Empty() bool {
	return f.DurationMinutes == nil &&
		f.PreferredDate == nil &&
		f.PreferredTimeRange == "" &&
		f.SpecificTime == nil &&
		f.Title == "" &&
		f.Description == "" &&
		len(f.Attendees) == 0
}

// Result is what one understanding call produces.
type Result struct {
	Reply  string
	Fields Fields
}

// Understander produces a reply and extracted fields for a user turn.
// Implementations must tolerate their own malformed output: extraction
// garbage degrades to empty Fields, never to an error. An error return
// means the collaborator call itself failed.
type Understander interface {
	Understand(ctx context.Context, snapshot Snapshot, rawText string) (*Result, error)
}
