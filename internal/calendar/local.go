package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karimnasser/schedbot/internal/db"
)

// LocalService is an in-process Service implementation. It holds the event
// set in memory and records created events in the transcript database.
// It stands in for an external calendar provider in tests, the terminal
// chat mode, and single-user deployments.
type LocalService struct {
	mu       sync.RWMutex
	events   []Event
	database *db.DB // optional; nil disables the audit record
}

// NewLocalService creates a LocalService. database may be nil.
func NewLocalService(database *db.DB) *LocalService {
	return &LocalService{database: database}
}

// AddEvent seeds a busy event, e.g. imported from an external calendar.
func (s *LocalService) AddEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	s.events = append(s.events, ev)
}

func (s *LocalService) FindSlots(ctx context.Context, windowStart, windowEnd time.Time, durationMinutes int, hours WorkingHours) ([]TimeSlot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}
	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("window end %v is not after start %v", windowEnd, windowStart)
	}

	granularity := hours.Granularity
	if granularity <= 0 {
		granularity = 30 * time.Minute
	}

	s.mu.RLock()
	busy := make([]Event, len(s.events))
	copy(busy, s.events)
	s.mu.RUnlock()

	duration := time.Duration(durationMinutes) * time.Minute

	var slots []TimeSlot
	for cur := windowStart; cur.Before(windowEnd); cur = cur.Add(granularity) {
		if !hours.Contains(cur) {
			continue
		}
		slotEnd := cur.Add(duration)
		available, reason := checkConflict(cur, slotEnd, busy)
		slots = append(slots, TimeSlot{
			StartTime:      cur,
			EndTime:        slotEnd,
			Available:      available,
			ConflictReason: reason,
		})
	}
	return slots, nil
}

// checkConflict reports whether [start, end) overlaps any busy event.
func checkConflict(start, end time.Time, busy []Event) (bool, string) {
	for _, ev := range busy {
		if start.Before(ev.EndTime) && end.After(ev.StartTime) {
			return false, "Conflicts with: " + ev.Title
		}
	}
	return true, ""
}

func (s *LocalService) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("start time is required to create an event")
	}
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", req.DurationMinutes)
	}

	title := req.Title
	if title == "" {
		title = "Meeting"
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("%d-minute meeting", req.DurationMinutes)
	}

	ev := Event{
		ID:          uuid.New().String(),
		Title:       title,
		StartTime:   req.StartTime,
		EndTime:     req.StartTime.Add(time.Duration(req.DurationMinutes) * time.Minute),
		Description: description,
		Attendees:   req.Attendees,
	}

	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()

	if s.database != nil {
		attendees, err := json.Marshal(ev.Attendees)
		if err != nil {
			attendees = []byte("[]")
		}
		_, err = s.database.ExecContext(ctx,
			`INSERT INTO scheduled_events (id, session_id, title, description, start_time, end_time, attendees)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, req.SessionID, ev.Title, ev.Description, ev.StartTime.UTC(), ev.EndTime.UTC(), string(attendees),
		)
		if err != nil {
			// Roll back the in-memory booking so a failed write is a failed booking.
			s.mu.Lock()
			for i := range s.events {
				if s.events[i].ID == ev.ID {
					s.events = append(s.events[:i], s.events[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
			return nil, fmt.Errorf("recording event: %w", err)
		}
	}

	return &ev, nil
}

func (s *LocalService) EventsInRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, ev := range s.events {
		if ev.StartTime.Before(end) && ev.EndTime.After(start) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *LocalService) FindEventsByTitle(ctx context.Context, title string, start, end time.Time) ([]Event, error) {
	events, err := s.EventsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Title), strings.ToLower(title)) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// WorkingHoursFromConfig converts config weekday indices (0=Monday) into
// time.Weekday values and bundles the slot granularity.
func WorkingHoursFromConfig(startHour, endHour int, days []int, granularityMinutes int) WorkingHours {
	wh := WorkingHours{
		StartHour:   startHour,
		EndHour:     endHour,
		Granularity: time.Duration(granularityMinutes) * time.Minute,
	}
	for _, d := range days {
		// 0=Monday .. 6=Sunday -> time.Weekday with Sunday=0.
		wh.Days = append(wh.Days, time.Weekday((d+1)%7))
	}
	return wh
}
