// Package conversation implements the dialogue state machine that drives
// a scheduling session from first contact to a booked event.
package conversation

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/karimnasser/schedbot/internal/calendar"
	"github.com/karimnasser/schedbot/internal/db"
	"github.com/karimnasser/schedbot/internal/nlu"
	"github.com/karimnasser/schedbot/internal/timeparse"
)

const (
	// searchWindow is how far ahead availability is checked per attempt.
	searchWindow = 7 * 24 * time.Hour
	// maxPresentedSlots caps the options shown (and selectable) per check.
	maxPresentedSlots = 3
)

// Engine owns state transitions. It is stateless across sessions; all
// per-session data lives in the Context the registry hands it.
type Engine struct {
	understander nlu.Understander
	calendarSvc  calendar.Service
	resolver     *timeparse.Resolver
	hours        calendar.WorkingHours
	database     *db.DB // optional transcript log
	now          func() time.Time
}

// NewEngine creates an engine. database may be nil to disable the
// transcript log.
func NewEngine(understander nlu.Understander, calendarSvc calendar.Service, resolver *timeparse.Resolver, hours calendar.WorkingHours, database *db.DB) *Engine {
	return &Engine{
		understander: understander,
		calendarSvc:  calendarSvc,
		resolver:     resolver,
		hours:        hours,
		database:     database,
		now:          time.Now,
	}
}

// turnResult is what a per-state handler produces.
type turnResult struct {
	reply                 string
	next                  State
	suggestedActions      []string
	requiresClarification bool
}

// ProcessTurn runs one full turn: merge understanding into the meeting
// request, apply the current state's transition rule, and record both
// sides of the exchange in the history. The caller (session registry)
// guarantees exclusive access to sctx for the duration of the call.
func (e *Engine) ProcessTurn(ctx context.Context, sctx *Context, userInput string) *Response {
	sctx.LastUserInput = userInput
	sctx.appendHistory("user", userInput, e.now())
	e.logTranscript(ctx, sctx, "user", userInput)

	result := e.processTurn(ctx, sctx, userInput)

	sctx.appendHistory("assistant", result.reply, e.now())
	e.logTranscript(ctx, sctx, "assistant", result.reply)
	sctx.State = result.next

	return &Response{
		Reply:                 result.reply,
		State:                 result.next,
		SuggestedActions:      result.suggestedActions,
		RequiresClarification: result.requiresClarification,
	}
}

func (e *Engine) processTurn(ctx context.Context, sctx *Context, userInput string) turnResult {
	understanding, err := e.understander.Understand(ctx, sctx.snapshot(), userInput)
	if err != nil {
		log.Printf("conversation: understanding failed for session %s: %v", sctx.SessionID, err)
		// Recoverable: apologize and re-loop the current state.
		return turnResult{
			reply:                 msgCollaboratorFailure,
			next:                  sctx.State,
			requiresClarification: true,
		}
	}

	if sctx.MeetingRequest == nil {
		sctx.MeetingRequest = &MeetingRequest{}
	}
	sctx.MeetingRequest.merge(understanding.Fields)

	switch sctx.State {
	case StateInitial, StateCollectingDuration:
		return e.handleDurationCollection(sctx, understanding)
	case StateCollectingTimePreference:
		return e.handleTimePreference(ctx, sctx, understanding)
	case StateCheckingAvailability:
		return e.handleAvailabilityCheck(ctx, sctx)
	case StateConfirmingSlot:
		return e.handleSlotConfirmation(sctx)
	case StateScheduling:
		return e.handleScheduling(ctx, sctx)
	case StateCompleted:
		return turnResult{reply: msgCompleted, next: StateCompleted}
	case StateError:
		return turnResult{reply: msgErrorState, next: StateError, requiresClarification: true}
	default:
		return turnResult{
			reply:                 "I'm not sure how to help with that. Could you please tell me what you need?",
			next:                  StateInitial,
			requiresClarification: true,
		}
	}
}

// handleDurationCollection advances once a duration has been extracted,
// otherwise loops asking for one.
func (e *Engine) handleDurationCollection(sctx *Context, u *nlu.Result) turnResult {
	if sctx.MeetingRequest.DurationMinutes > 0 {
		return turnResult{reply: u.Reply, next: StateCollectingTimePreference}
	}
	return turnResult{reply: u.Reply, next: StateCollectingDuration, requiresClarification: true}
}

// handleTimePreference runs the time resolver over the raw input. Known
// events in the upcoming week serve as anchors for phrases like "before
// my flight".
func (e *Engine) handleTimePreference(ctx context.Context, sctx *Context, u *nlu.Result) turnResult {
	refEvents, err := e.calendarSvc.EventsInRange(ctx, e.now(), e.now().Add(searchWindow))
	if err != nil {
		log.Printf("conversation: loading reference events for session %s: %v", sctx.SessionID, err)
		refEvents = nil // anchors are best-effort
	}

	expr := e.resolver.Parse(sctx.LastUserInput, refEvents)
	if resolved, ok := e.resolver.Resolve(expr); ok {
		sctx.MeetingRequest.SpecificTime = &resolved
		return turnResult{reply: u.Reply, next: StateCheckingAvailability}
	}

	return turnResult{reply: u.Reply, next: StateCollectingTimePreference, requiresClarification: true}
}

// handleAvailabilityCheck searches a 7-day window and presents up to
// three open slots.
func (e *Engine) handleAvailabilityCheck(ctx context.Context, sctx *Context) turnResult {
	mr := sctx.MeetingRequest

	windowStart := e.now().Add(time.Hour)
	if mr.SpecificTime != nil {
		windowStart = *mr.SpecificTime
	}
	windowEnd := windowStart.Add(searchWindow)

	slots, err := e.calendarSvc.FindSlots(ctx, windowStart, windowEnd, mr.RequestedDuration(), e.hours)
	if err != nil {
		log.Printf("conversation: availability check failed for session %s: %v", sctx.SessionID, err)
		return turnResult{
			reply:                 msgCollaboratorFailure,
			next:                  StateCheckingAvailability,
			requiresClarification: true,
		}
	}

	var available []calendar.TimeSlot
	for _, slot := range slots {
		if slot.Available {
			available = append(available, slot)
		}
	}

	if len(available) == 0 {
		sctx.PresentedSlots = nil
		return turnResult{
			reply:                 composeNoSlots(),
			next:                  StateCollectingTimePreference,
			requiresClarification: true,
		}
	}

	if len(available) > maxPresentedSlots {
		available = available[:maxPresentedSlots]
	}
	// Only presented slots are selectable; "Option 4" against three
	// options must never pick anything.
	sctx.PresentedSlots = available

	return turnResult{
		reply:            composeSlotsFound(available),
		next:             StateConfirmingSlot,
		suggestedActions: optionActions(len(available)),
	}
}

func (e *Engine) handleSlotConfirmation(sctx *Context) turnResult {
	slot, ok := parseSlotSelection(sctx.LastUserInput, sctx.PresentedSlots)
	if !ok {
		return turnResult{
			reply:                 msgSelectionNotUnderstood,
			next:                  StateConfirmingSlot,
			requiresClarification: true,
		}
	}

	start := slot.StartTime
	sctx.MeetingRequest.SpecificTime = &start
	return turnResult{
		reply: composeSlotConfirmation(sctx.MeetingRequest.RequestedDuration(), start),
		next:  StateScheduling,
	}
}

// handleScheduling books the confirmed slot. A failed booking is fatal to
// the session; failures before this point always re-loop.
func (e *Engine) handleScheduling(ctx context.Context, sctx *Context) turnResult {
	mr := sctx.MeetingRequest
	if mr.SpecificTime == nil {
		return turnResult{
			reply:                 msgNeedSpecificTime,
			next:                  StateCollectingTimePreference,
			requiresClarification: true,
		}
	}

	event, err := e.calendarSvc.CreateEvent(ctx, calendar.EventRequest{
		SessionID:       sctx.SessionID,
		Title:           mr.Title,
		Description:     mr.Description,
		StartTime:       *mr.SpecificTime,
		DurationMinutes: mr.RequestedDuration(),
		Attendees:       mr.Attendees,
	})
	if err != nil {
		log.Printf("conversation: event creation failed for session %s: %v", sctx.SessionID, err)
		return turnResult{
			reply:                 msgSchedulingFailed,
			next:                  StateError,
			requiresClarification: true,
		}
	}

	return turnResult{reply: composeScheduled(event.StartTime), next: StateCompleted}
}

var optionRe = regexp.MustCompile(`option\s+(\d+)`)

// parseSlotSelection matches an explicit "option N" reference (1-indexed,
// bounds-checked) or a literal time-of-day mention against the presented
// slots.
func parseSlotSelection(userInput string, slots []calendar.TimeSlot) (calendar.TimeSlot, bool) {
	lower := strings.ToLower(userInput)

	if m := optionRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= len(slots) {
			return slots[n-1], true
		}
		return calendar.TimeSlot{}, false
	}

	for _, slot := range slots {
		clock := strings.ToLower(slot.StartTime.Format(clockFormat))
		if strings.Contains(lower, clock) {
			return slot, true
		}
	}

	return calendar.TimeSlot{}, false
}

// logTranscript records one exchange entry; failures are logged, not fatal.
func (e *Engine) logTranscript(ctx context.Context, sctx *Context, role, content string) {
	if e.database == nil {
		return
	}
	_, err := e.database.ExecContext(ctx,
		`INSERT INTO transcript_entries (id, session_id, role, content, state) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), sctx.SessionID, role, content, string(sctx.State),
	)
	if err != nil {
		log.Printf("conversation: transcript write failed for session %s: %v", sctx.SessionID, err)
	}
}
