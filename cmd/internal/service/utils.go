package service

import (
	"strings"
	"time"

	"treinoexpresso/cmd/internal/ingest"
	"treinoexpresso/cmd/internal/records"
)

// Clock resolves "now" and "today" in the dashboard's time zone.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{Location: loc, Now: time.Now}
}

// Today is the local calendar date as a UTC midnight, the same shape ParseDateFlexible returns.
func (c *Clock) Today() time.Time {
	t := c.Now().In(c.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *Clock) NowMillis() int64 {
	return c.Now().UnixMilli()
}

// matchesTerm is the dashboard's free text search: case and accent insensitive substring over
// the given fields. Callers that also match on document numbers combine it with matchesDigits.
func matchesTerm(term string, fields ...string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return ingest.ContainsFolded(term, fields...)
}

func matchesDigits(term string, fields ...string) bool {
	digits := records.OnlyDigits(term)
	if digits == "" {
		return false
	}
	for _, f := range fields {
		if d := records.OnlyDigits(f); d != "" && strings.Contains(d, digits) {
			return true
		}
	}
	return false
}

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
