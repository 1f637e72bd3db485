package timeparse

import "time"

// resolutionRule produces a concrete timestamp from one signal class.
type resolutionRule struct {
	name    string
	resolve func(r *Resolver, expr Expression) (time.Time, bool)
}

// resolutionOrder is the total priority order for turning an expression
// into a single timestamp. The first rule that yields a value wins; the
// order is a deliberate tie-break, not a weighting.
var resolutionOrder = []resolutionRule{
	{
		name: "specific-time",
		resolve: func(r *Resolver, expr Expression) (time.Time, bool) {
			if expr.SpecificTime == nil {
				return time.Time{}, false
			}
			return *expr.SpecificTime, true
		},
	},
	{
		name: "deadline-anchor",
		resolve: func(r *Resolver, expr Expression) (time.Time, bool) {
			if expr.DeadlineAnchor == nil {
				return time.Time{}, false
			}
			return *expr.DeadlineAnchor, true
		},
	},
	{
		name: "context-event",
		resolve: func(r *Resolver, expr Expression) (time.Time, bool) {
			if expr.ContextEvent == nil {
				return time.Time{}, false
			}
			// Aim for an hour before the referenced event.
			return expr.ContextEvent.StartTime.Add(-time.Hour), true
		},
	},
	{
		name: "date-with-range",
		resolve: func(r *Resolver, expr Expression) (time.Time, bool) {
			if expr.PreferredDate == nil || expr.TimeRange == "" {
				return time.Time{}, false
			}
			rng, ok := timeRanges[expr.TimeRange]
			if !ok {
				return time.Time{}, false
			}
			d := *expr.PreferredDate
			hour := (rng.start + rng.end) / 2
			return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location()), true
		},
	},
	{
		name: "date-alone",
		resolve: func(r *Resolver, expr Expression) (time.Time, bool) {
			if expr.PreferredDate == nil {
				return time.Time{}, false
			}
			return *expr.PreferredDate, true
		},
	},
	{
		name: "relative-offset",
		resolve: func(r *Resolver, expr Expression) (time.Time, bool) {
			if expr.RelativeOffset == nil {
				return time.Time{}, false
			}
			return r.now().Add(*expr.RelativeOffset), true
		},
	},
}

// Resolve turns an expression into one concrete timestamp, applying the
// priority order above. The false return means no concrete time could be
// extracted; callers must keep collecting preference rather than invent
// a default. A time-range label alone never resolves: it needs a date to
// anchor it.
func (r *Resolver) Resolve(expr Expression) (time.Time, bool) {
	for _, rule := range resolutionOrder {
		if t, ok := rule.resolve(r, expr); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
