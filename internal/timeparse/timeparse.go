// Package timeparse extracts and resolves natural-language time
// expressions like "tomorrow afternoon", "next friday at 2 PM" or
// "before my flight".
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/karimnasser/schedbot/internal/calendar"
)

// hourRange is a named span of hours within a day.
type hourRange struct {
	start int
	end   int // may be smaller than start when the range wraps past midnight
}

// timeRanges is the fixed time-of-day vocabulary.
var timeRanges = map[string]hourRange{
	"morning":   {6, 12},
	"afternoon": {12, 17},
	"evening":   {17, 22},
	"night":     {22, 6},
}

// Expression is a bag of independently detected temporal signals.
// Confidence accumulates additively per matched signal; it is an
// unnormalized ranking heuristic, not a probability.
type Expression struct {
	SpecificTime   *time.Time
	PreferredDate  *time.Time
	TimeRange      string
	RelativeOffset *time.Duration
	DeadlineAnchor *time.Time
	ContextEvent   *calendar.Event
	Confidence     float64
}

// FuzzyDateParser is the pluggable fallback for free-form date text the
// explicit keyword rules don't cover ("June 20th", "2025-06-20").
type FuzzyDateParser interface {
	ParseFuzzyDate(text string) (time.Time, bool)
}

// Resolver parses and resolves time expressions relative to an injected
// clock and timezone.
type Resolver struct {
	loc   *time.Location
	fuzzy FuzzyDateParser
	now   func() time.Time
}

// NewResolver creates a Resolver for the given location. fuzzy may be nil,
// which disables the free-form date fallback.
func NewResolver(loc *time.Location, fuzzy FuzzyDateParser) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		loc:   loc,
		fuzzy: fuzzy,
		now:   func() time.Time { return time.Now().In(loc) },
	}
}

// WithClock overrides the reference clock and returns the resolver.
// Everything relative ("tomorrow", "next friday") hangs off this clock.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

var (
	clockTimeRe = regexp.MustCompile(`\b(\d{1,2}):?(\d{2})?\s*(AM|PM|am|pm)\b`)
	clock24Re   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

	beforeRe = regexp.MustCompile(`(?i)\bbefore\s+(.+)`)
	afterRe  = regexp.MustCompile(`(?i)\bafter\s+(.+)`)
)

// dayKeywords are the explicit date rules, matched in order.
var dayKeywords = []struct {
	re     *regexp.Regexp
	offset func(r *Resolver) time.Time
}{
	{regexp.MustCompile(`(?i)\btoday\b`), func(r *Resolver) time.Time { return r.now() }},
	{regexp.MustCompile(`(?i)\btomorrow\b`), func(r *Resolver) time.Time { return r.now().AddDate(0, 0, 1) }},
	{regexp.MustCompile(`(?i)\byesterday\b`), func(r *Resolver) time.Time { return r.now().AddDate(0, 0, -1) }},
	{regexp.MustCompile(`(?i)\bnext monday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Monday) }},
	{regexp.MustCompile(`(?i)\bnext tuesday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Tuesday) }},
	{regexp.MustCompile(`(?i)\bnext wednesday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Wednesday) }},
	{regexp.MustCompile(`(?i)\bnext thursday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Thursday) }},
	{regexp.MustCompile(`(?i)\bnext friday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Friday) }},
	{regexp.MustCompile(`(?i)\bnext saturday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Saturday) }},
	{regexp.MustCompile(`(?i)\bnext sunday\b`), func(r *Resolver) time.Time { return r.nextWeekday(time.Sunday) }},
}

// relativeRules map relative phrases to day offsets. Weeks and months use
// the fixed 7/30-day approximation, not calendar arithmetic.
var relativeRules = []struct {
	re   *regexp.Regexp
	days func(match []string) int
}{
	{regexp.MustCompile(`(?i)\btomorrow\b`), func([]string) int { return 1 }},
	{regexp.MustCompile(`(?i)\bnext week\b`), func([]string) int { return 7 }},
	{regexp.MustCompile(`(?i)\bnext month\b`), func([]string) int { return 30 }},
	{regexp.MustCompile(`(?i)\bin (\d+) days?\b`), func(m []string) int { n, _ := strconv.Atoi(m[1]); return n }},
	{regexp.MustCompile(`(?i)\bin (\d+) weeks?\b`), func(m []string) int { n, _ := strconv.Atoi(m[1]); return n * 7 }},
	{regexp.MustCompile(`(?i)\bin (\d+) months?\b`), func(m []string) int { n, _ := strconv.Atoi(m[1]); return n * 30 }},
}

// Parse extracts every temporal signal present in text. referenceEvents
// anchor deadline phrases ("before my flight") and direct event mentions.
func (r *Resolver) Parse(text string, referenceEvents []calendar.Event) Expression {
	var expr Expression

	if t, ok := r.extractClockTime(text); ok {
		expr.SpecificTime = &t
		expr.Confidence += 0.4
	}

	if d, ok := r.extractDateReference(text); ok {
		expr.PreferredDate = &d
		expr.Confidence += 0.3
	}

	if name, ok := extractTimeRange(text); ok {
		expr.TimeRange = name
		expr.Confidence += 0.2
	}

	if off, ok := extractRelativeOffset(text); ok {
		expr.RelativeOffset = &off
		expr.Confidence += 0.3
	}

	if t, ok := extractDeadlineAnchor(text, referenceEvents); ok {
		expr.DeadlineAnchor = &t
		expr.Confidence += 0.4
	}

	if ev, ok := extractContextEvent(text, referenceEvents); ok {
		expr.ContextEvent = ev
		expr.Confidence += 0.4
	}

	return expr
}

// extractClockTime matches "2 PM", "9:30 AM" and bare 24-hour "14:30"
// forms, anchored to today's date.
func (r *Resolver) extractClockTime(text string) (time.Time, bool) {
	if m := clockTimeRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		period := strings.ToUpper(m[3])

		if period == "PM" && hour != 12 {
			hour += 12
		} else if period == "AM" && hour == 12 {
			hour = 0
		}
		if hour > 23 || minute > 59 {
			return time.Time{}, false
		}
		return r.atToday(hour, minute), true
	}

	if m := clock24Re.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return r.atToday(hour, minute), true
		}
	}

	return time.Time{}, false
}

// extractDateReference applies the explicit day keywords first, then the
// fuzzy fallback. Keyword dates are anchored at 09:00. A bare weekday
// without "next" deliberately does not match.
func (r *Resolver) extractDateReference(text string) (time.Time, bool) {
	for _, rule := range dayKeywords {
		if rule.re.MatchString(text) {
			d := rule.offset(r)
			return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, r.loc), true
		}
	}

	if r.fuzzy != nil {
		if d, ok := r.fuzzy.ParseFuzzyDate(text); ok {
			return d.In(r.loc), true
		}
	}

	return time.Time{}, false
}

func extractTimeRange(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range []string{"morning", "afternoon", "evening", "night"} {
		if strings.Contains(lower, name) {
			return name, true
		}
	}
	return "", false
}

func extractRelativeOffset(text string) (time.Duration, bool) {
	for _, rule := range relativeRules {
		if m := rule.re.FindStringSubmatch(text); m != nil {
			return time.Duration(rule.days(m)) * 24 * time.Hour, true
		}
	}
	return 0, false
}

// extractDeadlineAnchor handles "before X" / "after X" where X names a
// reference event. "before" wins when both appear. The anchor is one hour
// before the event start, or one hour after its end.
func extractDeadlineAnchor(text string, events []calendar.Event) (time.Time, bool) {
	var reference string
	var before bool

	if m := beforeRe.FindStringSubmatch(text); m != nil {
		reference, before = m[1], true
	} else if m := afterRe.FindStringSubmatch(text); m != nil {
		reference, before = m[1], false
	} else {
		return time.Time{}, false
	}

	words := strings.Fields(strings.ToLower(reference))
	for _, ev := range events {
		title := strings.ToLower(ev.Title)
		for _, w := range words {
			if strings.Contains(title, w) {
				if before {
					return ev.StartTime.Add(-time.Hour), true
				}
				return ev.EndTime.Add(time.Hour), true
			}
		}
	}
	return time.Time{}, false
}

// extractContextEvent matches an event whose title shares at least two
// words with the input.
func extractContextEvent(text string, events []calendar.Event) (*calendar.Event, bool) {
	textWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		textWords[w] = true
	}

	for i := range events {
		matches := 0
		for _, w := range strings.Fields(strings.ToLower(events[i].Title)) {
			if textWords[w] {
				matches++
			}
		}
		if matches >= 2 {
			return &events[i], true
		}
	}
	return nil, false
}

// nextWeekday returns the next occurrence of the given weekday strictly
// after today; when today is that weekday the result is a week out.
func (r *Resolver) nextWeekday(target time.Weekday) time.Time {
	now := r.now()
	ahead := (int(target) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return now.AddDate(0, 0, ahead)
}

func (r *Resolver) atToday(hour, minute int) time.Time {
	now := r.now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, r.loc)
}
