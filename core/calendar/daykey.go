package calendar

import (
	"time"

	"github.com/pkg/errors"
)

// The day of a timestamp is its UTC calendar date. Bucketing must never
// depend on the server's local time zone, or the same instant would land
// in different buckets on different hosts near midnight.
const dayKeyLayout = "2006-01-02"

// DayKey returns the canonical, time-stripped day of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// BucketID returns the composite bucket key for one calendar day.
// Lookups and upserts both target this key, so concurrent "first entry on
// this day" operations converge on a single bucket.
func BucketID(calendarID, dayKey string) string {
	return calendarID + "_" + dayKey
}

// ParseDayKey parses a canonical day key into UTC midnight of that day.
func ParseDayKey(dayKey string) (time.Time, error) {
	t, err := time.ParseInLocation(dayKeyLayout, dayKey, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parsing day key")
	}
	return t, nil
}

// ParseTimestamp parses an RFC 3339 timestamp, or a bare date as posted by
// the board UI, into UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dayKeyLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parsing timestamp")
	}
	return t, nil
}
