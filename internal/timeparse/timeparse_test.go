package timeparse

import (
	"testing"
	"time"

	"github.com/karimnasser/schedbot/internal/calendar"
)

// Wednesday, June 4 2025, 10:00 UTC.
var testNow = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

func newTestResolver() *Resolver {
	r := NewResolver(time.UTC, nil)
	r.now = func() time.Time { return testNow }
	return r
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestExtractClockTime(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		text string
		want time.Time
	}{
		{"let's meet at 2 PM", date(2025, time.June, 4, 14, 0)},
		{"how about 9:30 AM", date(2025, time.June, 4, 9, 30)},
		{"12 PM works", date(2025, time.June, 4, 12, 0)},
		{"12 AM is fine", date(2025, time.June, 4, 0, 0)},
		{"at 14:30 please", date(2025, time.June, 4, 14, 30)},
	}

	for _, tt := range tests {
		expr := r.Parse(tt.text, nil)
		if expr.SpecificTime == nil {
			t.Errorf("%q: expected a specific time", tt.text)
			continue
		}
		if !expr.SpecificTime.Equal(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.want, *expr.SpecificTime)
		}
	}
}

func TestNoClockTimeInPlainText(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("sometime soon would be great", nil)
	if expr.SpecificTime != nil {
		t.Errorf("unexpected specific time %v", *expr.SpecificTime)
	}
}

func TestDayKeywords(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		text string
		want time.Time
	}{
		{"today if possible", date(2025, time.June, 4, 9, 0)},
		{"tomorrow works", date(2025, time.June, 5, 9, 0)},
		{"yesterday it was fine", date(2025, time.June, 3, 9, 0)},
		{"next friday", date(2025, time.June, 6, 9, 0)},
		{"next monday", date(2025, time.June, 9, 9, 0)},
	}

	for _, tt := range tests {
		expr := r.Parse(tt.text, nil)
		if expr.PreferredDate == nil {
			t.Errorf("%q: expected a preferred date", tt.text)
			continue
		}
		if !expr.PreferredDate.Equal(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.want, *expr.PreferredDate)
		}
	}
}

func TestNextWeekdayOnSameWeekdayRollsForward(t *testing.T) {
	r := newTestResolver() // today is a Wednesday

	expr := r.Parse("next wednesday", nil)
	if expr.PreferredDate == nil {
		t.Fatal("expected a preferred date")
	}
	want := date(2025, time.June, 11, 9, 0)
	if !expr.PreferredDate.Equal(want) {
		t.Errorf("expected +7 days (%v), got %v", want, *expr.PreferredDate)
	}
}

func TestBareWeekdayDoesNotMatch(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("friday would be good", nil)
	if expr.PreferredDate != nil {
		t.Errorf("bare weekday should not produce a date, got %v", *expr.PreferredDate)
	}
}

func TestFuzzyFallback(t *testing.T) {
	r := NewResolver(time.UTC, fuzzyStub{date(2025, time.June, 20, 0, 0)})
	r.now = func() time.Time { return testNow }

	expr := r.Parse("June 20th", nil)
	if expr.PreferredDate == nil {
		t.Fatal("expected fuzzy parser to supply a date")
	}
	if !expr.PreferredDate.Equal(date(2025, time.June, 20, 0, 0)) {
		t.Errorf("unexpected fuzzy date %v", *expr.PreferredDate)
	}
}

type fuzzyStub struct{ t time.Time }

func (s fuzzyStub) ParseFuzzyDate(string) (time.Time, bool) { return s.t, true }

func TestTimeRangeVocabulary(t *testing.T) {
	r := newTestResolver()
	for _, name := range []string{"morning", "afternoon", "evening", "night"} {
		expr := r.Parse("sometime in the "+name, nil)
		if expr.TimeRange != name {
			t.Errorf("expected range %q, got %q", name, expr.TimeRange)
		}
	}
}

func TestRelativeOffsets(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		text string
		days int
	}{
		{"tomorrow", 1},
		{"next week sometime", 7},
		{"next month", 30},
		{"in 3 days", 3},
		{"in 2 weeks", 14},
		{"in 1 month", 30},
	}

	for _, tt := range tests {
		expr := r.Parse(tt.text, nil)
		if expr.RelativeOffset == nil {
			t.Errorf("%q: expected a relative offset", tt.text)
			continue
		}
		want := time.Duration(tt.days) * 24 * time.Hour
		if *expr.RelativeOffset != want {
			t.Errorf("%q: expected %v, got %v", tt.text, want, *expr.RelativeOffset)
		}
	}
}

var flight = calendar.Event{
	Title:     "Flight to Berlin",
	StartTime: date(2025, time.June, 5, 18, 0),
	EndTime:   date(2025, time.June, 5, 20, 0),
}

func TestDeadlineAnchors(t *testing.T) {
	r := newTestResolver()
	events := []calendar.Event{flight}

	before := r.Parse("before my flight", events)
	if before.DeadlineAnchor == nil {
		t.Fatal("expected a deadline anchor for 'before'")
	}
	if want := flight.StartTime.Add(-time.Hour); !before.DeadlineAnchor.Equal(want) {
		t.Errorf("expected %v, got %v", want, *before.DeadlineAnchor)
	}

	after := r.Parse("after my flight", events)
	if after.DeadlineAnchor == nil {
		t.Fatal("expected a deadline anchor for 'after'")
	}
	if want := flight.EndTime.Add(time.Hour); !after.DeadlineAnchor.Equal(want) {
		t.Errorf("expected %v, got %v", want, *after.DeadlineAnchor)
	}
}

func TestDeadlineAnchorNeedsMatchingEvent(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("before my dentist appointment", []calendar.Event{flight})
	if expr.DeadlineAnchor != nil {
		t.Errorf("expected no anchor without a matching event, got %v", *expr.DeadlineAnchor)
	}
}

func TestContextEventRequiresTwoWordOverlap(t *testing.T) {
	r := newTestResolver()
	events := []calendar.Event{flight}

	if expr := r.Parse("around the flight to berlin", events); expr.ContextEvent == nil {
		t.Error("expected context event match with two overlapping words")
	}
	if expr := r.Parse("around the flight", events); expr.ContextEvent != nil {
		t.Error("one overlapping word should not match a context event")
	}
}

func TestConfidenceAccumulates(t *testing.T) {
	r := newTestResolver()

	expr := r.Parse("tomorrow morning at 2 PM", nil)
	// specific time 0.4 + date 0.3 + range 0.2 + relative 0.3.
	if want := 1.2; expr.Confidence < want-1e-9 || expr.Confidence > want+1e-9 {
		t.Errorf("expected confidence %.1f, got %.2f", want, expr.Confidence)
	}

	if expr := r.Parse("hello there", nil); expr.Confidence != 0 {
		t.Errorf("expected zero confidence, got %.2f", expr.Confidence)
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	r := newTestResolver()
	events := []calendar.Event{flight}

	// Deadline anchor beats relative offset, every time.
	expr := r.Parse("tomorrow, before my flight", events)
	resolved, ok := r.Resolve(expr)
	if !ok {
		t.Fatal("expected resolution")
	}
	if want := flight.StartTime.Add(-time.Hour); !resolved.Equal(want) {
		t.Errorf("expected deadline anchor %v to win, got %v", want, resolved)
	}

	// Specific time beats everything.
	expr = r.Parse("2 PM, before my flight", events)
	resolved, ok = r.Resolve(expr)
	if !ok {
		t.Fatal("expected resolution")
	}
	if want := date(2025, time.June, 4, 14, 0); !resolved.Equal(want) {
		t.Errorf("expected specific time %v to win, got %v", want, resolved)
	}
}

func TestResolveDateWithRangeMidpoint(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		text     string
		wantHour int
	}{
		{"tomorrow morning", 9},    // (6+12)/2
		{"tomorrow afternoon", 14}, // (12+17)/2
		{"tomorrow evening", 19},   // (17+22)/2
		{"tomorrow night", 14},     // (22+6)/2, floor
	}

	for _, tt := range tests {
		expr := r.Parse(tt.text, nil)
		resolved, ok := r.Resolve(expr)
		if !ok {
			t.Errorf("%q: expected resolution", tt.text)
			continue
		}
		want := date(2025, time.June, 5, tt.wantHour, 0)
		if !resolved.Equal(want) {
			t.Errorf("%q: expected %v, got %v", tt.text, want, resolved)
		}
	}
}

func TestResolveDateAlone(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("next friday", nil)
	resolved, ok := r.Resolve(expr)
	if !ok {
		t.Fatal("expected resolution")
	}
	if want := date(2025, time.June, 6, 9, 0); !resolved.Equal(want) {
		t.Errorf("expected %v, got %v", want, resolved)
	}
}

func TestResolveRelativeOffsetFromNow(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("in 3 days", nil)
	resolved, ok := r.Resolve(expr)
	if !ok {
		t.Fatal("expected resolution")
	}
	if want := testNow.Add(72 * time.Hour); !resolved.Equal(want) {
		t.Errorf("expected %v, got %v", want, resolved)
	}
}

func TestRangeAloneDoesNotResolve(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("afternoon would be nice", nil)
	if _, ok := r.Resolve(expr); ok {
		t.Error("a time-range label with no date must not resolve")
	}
}

func TestNothingResolvesToNothing(t *testing.T) {
	r := newTestResolver()
	expr := r.Parse("whenever you like", nil)
	if _, ok := r.Resolve(expr); ok {
		t.Error("expected no resolution for text with no temporal signals")
	}
}
