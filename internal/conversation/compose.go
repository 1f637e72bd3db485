package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/karimnasser/schedbot/internal/calendar"
)

// humanTimeFormat is the one timestamp format used in every user-facing
// confirmation and completion message.
const humanTimeFormat = "Monday, January 2 at 3:04 PM"

// clockFormat renders just the time of day, zero-padded, for matching a
// spoken choice like "the 2:00 pm one" against presented slots.
const clockFormat = "03:04 PM"

// formatSlotOptions renders presented slots as 1-indexed option lines.
func formatSlotOptions(slots []calendar.TimeSlot) string {
	lines := make([]string, 0, len(slots))
	for i, slot := range slots {
		lines = append(lines, fmt.Sprintf("Option %d: %s", i+1, slot.StartTime.Format(humanTimeFormat)))
	}
	return strings.Join(lines, "\n")
}

// optionActions returns the quick-reply actions matching the rendered
// option count.
func optionActions(n int) []string {
	actions := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		actions = append(actions, fmt.Sprintf("Option %d", i))
	}
	return actions
}

func composeSlotsFound(slots []calendar.TimeSlot) string {
	return fmt.Sprintf("Great! I found some available times:\n%s\nWhich one works for you?", formatSlotOptions(slots))
}

// alternativeSuggestions are offered when a search window comes up empty.
// The first two are used, matching the tone of the rest of the flow.
var alternativeSuggestions = []string{
	"Would you like to try a different time of day?",
	"How about scheduling for next week?",
	"Would a shorter meeting duration work?",
	"Would you prefer to schedule for a different day?",
}

func composeNoSlots() string {
	return fmt.Sprintf("I don't see any available slots in the next week. %s",
		strings.Join(alternativeSuggestions[:2], " "))
}

func composeSlotConfirmation(durationMinutes int, start time.Time) string {
	return fmt.Sprintf("Perfect! I'll schedule your %d-minute meeting for %s. Is that correct?",
		durationMinutes, start.Format(humanTimeFormat))
}

func composeScheduled(start time.Time) string {
	return fmt.Sprintf("Excellent! I've successfully scheduled your meeting for %s. You'll receive a calendar invitation shortly.",
		start.Format(humanTimeFormat))
}

const (
	msgSelectionNotUnderstood = "I didn't understand your choice. Please select one of the available options or let me know if you'd like to see different times."
	msgNeedSpecificTime       = "I need to know when you'd like to schedule the meeting. Please provide a specific time."
	msgSchedulingFailed       = "I encountered an error while scheduling your meeting. Please try again or contact support if the issue persists."
	msgCollaboratorFailure    = "I'm sorry, I'm having trouble right now. Could you please try again?"
	msgCompleted              = "Your meeting is booked. Clear this session to schedule another one."
	msgErrorState             = "Something went wrong with this booking. Please clear the session and start over."
	msgDidNotCatch            = "I didn't catch that. Could you please try again?"
)
