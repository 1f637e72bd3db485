package timeparse

import (
	"time"

	"github.com/araddon/dateparse"
)

// DateparseParser implements FuzzyDateParser with the dateparse library.
// It only succeeds when the whole text is a recognizable date ("June 20th
// 2025", "2025-06-20"); sentences fall through to the keyword rules.
type DateparseParser struct {
	loc *time.Location
}

// NewDateparseParser creates a dateparse-backed fuzzy parser.
func NewDateparseParser(loc *time.Location) *DateparseParser {
	if loc == nil {
		loc = time.UTC
	}
	return &DateparseParser{loc: loc}
}

func (p *DateparseParser) ParseFuzzyDate(text string) (time.Time, bool) {
	t, err := dateparse.ParseIn(text, p.loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
