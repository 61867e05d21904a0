package calendar

import (
	"fmt"
	"sort"
	"time"
)

// DayKey identifies a calendar day with no time component. Keys are derived
// by truncating a timestamp to its own location's wall-clock day, and the
// same truncation is applied everywhere (bucketing, window computation,
// expansion tracking) so an event can never straddle two keys.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf truncates a timestamp to its local calendar day.
func DayOf(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// Date returns the midnight instant of the day in the given location.
func (k DayKey) Date(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// String formats the key as ISO 8601 (e.g. "2026-09-01"), which is also the
// JSON wire format used by the schedule API.
func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// MarshalText implements encoding.TextMarshaler so DayKey works as a JSON
// map key and value.
func (k DayKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DaysBetween returns the day keys for the half-open range [start, end),
// stepping by calendar day in start's location. DST transitions are handled
// by AddDate rather than fixed 24h arithmetic.
func DaysBetween(start, end time.Time) []DayKey {
	var days []DayKey
	for t := start; t.Before(end); t = t.AddDate(0, 0, 1) {
		days = append(days, DayOf(t))
	}
	return days
}

// Bucket groups events by local calendar day. Every entry in days appears as
// a key in the result, with a non-nil (possibly empty) slice, so renderers
// never need a presence check. Events with a nil Start are dropped; events
// whose day is outside the requested set are dropped silently (they are
// outside the visible window). Each bucket is sorted ascending by Start with
// a stable sort, so events with identical timestamps keep encounter order.
func Bucket(events []Event, days []DayKey) map[DayKey][]Event {
	buckets := make(map[DayKey][]Event, len(days))
	for _, d := range days {
		buckets[d] = []Event{}
	}

	for _, e := range events {
		if e.Start == nil || e.Start.IsZero() {
			continue
		}
		key := DayOf(*e.Start)
		if _, ok := buckets[key]; !ok {
			continue
		}
		buckets[key] = append(buckets[key], e)
	}

	for key, list := range buckets {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Start.Before(*list[j].Start)
		})
		buckets[key] = list
	}
	return buckets
}
