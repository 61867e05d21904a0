package calendar

import (
	"testing"
	"time"
)

// ts returns a pointer to a timestamp on the given day at the given hour.
func ts(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.Local)
	return &t
}

func TestBucket_AllRequestedDaysPresent(t *testing.T) {
	days := DaysBetween(
		time.Date(2026, time.September, 7, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.September, 21, 0, 0, 0, 0, time.Local),
	)
	if len(days) != 14 {
		t.Fatalf("expected 14 days, got %d", len(days))
	}

	// Empty input: every day must still appear, with a non-nil empty list.
	buckets := Bucket(nil, days)
	if len(buckets) != 14 {
		t.Fatalf("expected 14 bucket keys, got %d", len(buckets))
	}
	for _, d := range days {
		list, ok := buckets[d]
		if !ok {
			t.Errorf("day %s missing from buckets", d)
		}
		if list == nil {
			t.Errorf("day %s has nil list, want empty slice", d)
		}
		if len(list) != 0 {
			t.Errorf("day %s has %d events, want 0", d, len(list))
		}
	}
}

func TestBucket_EventLandsOnExactlyOneDay(t *testing.T) {
	days := DaysBetween(
		time.Date(2026, time.September, 7, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local),
	)
	events := []Event{
		{ID: "a", Category: CategorySiteVisit, Start: ts(2026, time.September, 9, 10)},
	}

	buckets := Bucket(events, days)
	target := DayKey{Year: 2026, Month: time.September, Day: 9}
	for key, list := range buckets {
		want := 0
		if key == target {
			want = 1
		}
		if len(list) != want {
			t.Errorf("day %s: got %d events, want %d", key, len(list), want)
		}
	}
}

func TestBucket_DropsEventsWithoutStart(t *testing.T) {
	days := DaysBetween(
		time.Date(2026, time.September, 7, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local),
	)
	var zero time.Time
	events := []Event{
		{ID: "no-start", Category: CategorySiteVisit},
		{ID: "zero-start", Category: CategorySiteVisit, Start: &zero},
		{ID: "ok", Category: CategorySiteVisit, Start: ts(2026, time.September, 8, 9)},
	}

	buckets := Bucket(events, days)
	total := 0
	for _, list := range buckets {
		for _, e := range list {
			if e.ID != "ok" {
				t.Errorf("event %q should have been dropped", e.ID)
			}
			total++
		}
	}
	if total != 1 {
		t.Errorf("expected 1 bucketed event, got %d", total)
	}
}

func TestBucket_DropsEventsOutsideWindow(t *testing.T) {
	days := DaysBetween(
		time.Date(2026, time.September, 7, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local),
	)
	events := []Event{
		{ID: "before", Start: ts(2026, time.September, 6, 23)},
		{ID: "after", Start: ts(2026, time.September, 14, 0)},
		{ID: "inside", Start: ts(2026, time.September, 13, 23)},
	}

	buckets := Bucket(events, days)
	total := 0
	for _, list := range buckets {
		for _, e := range list {
			if e.ID != "inside" {
				t.Errorf("event %q is outside the window and should be dropped", e.ID)
			}
			total++
		}
	}
	if total != 1 {
		t.Errorf("expected 1 bucketed event, got %d", total)
	}
}

func TestBucket_SortsAscendingWithinDay(t *testing.T) {
	days := []DayKey{{Year: 2026, Month: time.September, Day: 10}}
	events := []Event{
		{ID: "late", Start: ts(2026, time.September, 10, 16)},
		{ID: "early", Start: ts(2026, time.September, 10, 8)},
		{ID: "noon", Start: ts(2026, time.September, 10, 12)},
	}

	buckets := Bucket(events, days)
	list := buckets[days[0]]
	got := []string{list[0].ID, list[1].ID, list[2].ID}
	want := []string{"early", "noon", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order: got %v, want %v", got, want)
		}
	}
}

func TestBucket_StableForEqualTimestamps(t *testing.T) {
	days := []DayKey{{Year: 2026, Month: time.September, Day: 10}}
	same := ts(2026, time.September, 10, 9)
	events := []Event{
		{ID: "1", Start: same},
		{ID: "2", Start: same},
	}

	buckets := Bucket(events, days)
	list := buckets[days[0]]
	if len(list) != 2 || list[0].ID != "1" || list[1].ID != "2" {
		t.Errorf("expected input order [1 2] preserved, got %v", []string{list[0].ID, list[1].ID})
	}
}

func TestDayOf_TruncatesToLocalDay(t *testing.T) {
	early := time.Date(2026, time.March, 3, 0, 0, 1, 0, time.Local)
	late := time.Date(2026, time.March, 3, 23, 59, 59, 0, time.Local)
	if DayOf(early) != DayOf(late) {
		t.Error("expected both instants to truncate to the same day key")
	}
	next := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.Local)
	if DayOf(late) == DayOf(next) {
		t.Error("expected midnight to start a new day key")
	}
}

func TestDayKey_String(t *testing.T) {
	k := DayKey{Year: 2026, Month: time.September, Day: 5}
	if got := k.String(); got != "2026-09-05" {
		t.Errorf("expected 2026-09-05, got %s", got)
	}
}
