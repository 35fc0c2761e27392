package client

import (
	"time"

	"github.com/dakka24/dakka/internal/i18n"
)

// RelativeTime renders timestamps as "n minutes ago" style strings.
// Now is injectable so output is deterministic in tests.
type RelativeTime struct {
	Now      func() time.Time
	Locale   string
	Catalog  *i18n.Catalog
	Location *time.Location
}

// Format buckets t relative to Now: under a minute is "now", then minutes,
// hours and days; a week or more falls back to the calendar date.
// Timestamps in the future count as "now".
func (f RelativeTime) Format(t time.Time) string {
	d := f.now().Sub(t)
	switch {
	case d < time.Minute:
		return f.Catalog.T(f.Locale, "time.now")
	case d < time.Hour:
		return f.Catalog.N(f.Locale, "time.minutes", int(d/time.Minute))
	case d < 24*time.Hour:
		return f.Catalog.N(f.Locale, "time.hours", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return f.Catalog.N(f.Locale, "time.days", int(d/(24*time.Hour)))
	default:
		return f.Date(t)
	}
}

// Date renders the calendar date in the locale's convention.
func (f RelativeTime) Date(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(f.Catalog.T(f.Locale, "date.layout"))
}

func (f RelativeTime) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
