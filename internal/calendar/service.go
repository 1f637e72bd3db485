package calendar

import (
	"context"
	"time"
)

// Service is the availability boundary the conversation engine talks to.
// Implementations may be backed by a real calendar provider; the engine
// only depends on this interface.
type Service interface {
	// FindSlots returns candidate slots of the requested duration between
	// windowStart and windowEnd, ordered by start time. Slots overlapping
	// existing events are returned with Available=false and a conflict
	// reason rather than silently dropped.
	FindSlots(ctx context.Context, windowStart, windowEnd time.Time, durationMinutes int, hours WorkingHours) ([]TimeSlot, error)

	// CreateEvent books the event described by req. A non-nil error means
	// the booking failed; there is no partial success.
	CreateEvent(ctx context.Context, req EventRequest) (*Event, error)

	// EventsInRange returns all known events between start and end,
	// ordered by start time.
	EventsInRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// FindEventsByTitle returns events in the range whose titles contain
	// the given substring, case-insensitively.
	FindEventsByTitle(ctx context.Context, title string, start, end time.Time) ([]Event, error)
}
