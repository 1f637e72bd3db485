package calendar

import "time"

// Event is a calendar event, either pre-existing (busy time) or created
// by the assistant.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// TimeSlot is a candidate meeting window. Immutable once produced; the
// conversation engine only reads and selects from these.
type TimeSlot struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Available      bool      `json:"is_available"`
	ConflictReason string    `json:"conflict_reason,omitempty"`
}

// EventRequest describes the event to create once a slot is confirmed.
type EventRequest struct {
	SessionID       string
	Title           string
	Description     string
	StartTime       time.Time
	DurationMinutes int
	Attendees       []string
}

// WorkingHours constrains candidate slot generation.
type WorkingHours struct {
	StartHour   int            // inclusive, 0-23
	EndHour     int            // exclusive, 1-24
	Days        []time.Weekday // days on which meetings may be booked
	Granularity time.Duration  // step between candidate slot starts
}

// Contains reports whether t falls on a working day within working hours.
func (w WorkingHours) Contains(t time.Time) bool {
	day := false
	for _, d := range w.Days {
		if t.Weekday() == d {
			day = true
			break
		}
	}
	if !day {
		return false
	}
	return t.Hour() >= w.StartHour && t.Hour() < w.EndHour
}
