package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/plumbline-app/plumbline/internal/calendar"
)

// fakeSource implements calendar.Source with a fixed result.
type fakeSource struct {
	events []calendar.Event
	err    error
}

func (f *fakeSource) EventsBetween(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	return f.events, f.err
}

func at(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.Local)
	return &t
}

var anchor = time.Date(2026, time.September, 9, 12, 0, 0, 0, time.Local)

func TestWindow_DefaultTwoWeeks(t *testing.T) {
	src := &fakeSource{events: []calendar.Event{
		{ID: "a", Category: calendar.CategorySiteVisit, Start: at(2026, time.September, 9, 10), Address: "12 Elm St"},
		{ID: "b", Category: calendar.CategoryReviewDue, Start: at(2026, time.September, 11, 17)},
	}}
	svc := NewScheduleService(src)

	view := svc.Window(context.Background(), WindowQuery{Anchor: anchor}, calendar.Viewer{})

	if len(view.Days) != 14 {
		t.Fatalf("expected 14 days, got %d", len(view.Days))
	}
	if view.Days[0].Date != "2026-09-07" {
		t.Errorf("window should start on Monday 2026-09-07, got %s", view.Days[0].Date)
	}

	total := 0
	for _, day := range view.Days {
		if day.Events == nil {
			t.Errorf("day %s has nil events, want empty slice", day.Date)
		}
		total += len(day.Events)
		if day.Heat < 0 || day.Heat > 1 {
			t.Errorf("day %s heat %v out of range", day.Date, day.Heat)
		}
	}
	if total != 2 {
		t.Errorf("expected 2 events in window, got %d", total)
	}
}

func TestWindow_MonthGrid(t *testing.T) {
	svc := NewScheduleService(&fakeSource{})
	view := svc.Window(context.Background(), WindowQuery{Anchor: anchor, Mode: calendar.ModeMonth}, calendar.Viewer{})
	if len(view.Days) != 42 {
		t.Errorf("month view should cover 42 days, got %d", len(view.Days))
	}
}

func TestWindow_SourceFailureFailsOpen(t *testing.T) {
	svc := NewScheduleService(&fakeSource{err: errors.New("db down")})

	view := svc.Window(context.Background(), WindowQuery{Anchor: anchor}, calendar.Viewer{})

	if len(view.Days) != 14 {
		t.Fatalf("failed fetch must still render the window, got %d days", len(view.Days))
	}
	for _, day := range view.Days {
		if len(day.Events) != 0 || day.Heat != 0 {
			t.Errorf("day %s should be empty after a failed fetch", day.Date)
		}
	}
}

func TestWindow_ExplicitCategoriesReplaceDefaults(t *testing.T) {
	src := &fakeSource{events: []calendar.Event{
		{ID: "v", Category: calendar.CategorySiteVisit, Start: at(2026, time.September, 9, 10)},
		{ID: "r", Category: calendar.CategoryReviewDue, Start: at(2026, time.September, 9, 11)},
		{ID: "x", Category: calendar.CategoryOther, Start: at(2026, time.September, 9, 12)},
	}}
	svc := NewScheduleService(src)

	view := svc.Window(context.Background(), WindowQuery{
		Anchor:     anchor,
		Categories: []calendar.Category{calendar.CategoryOther},
	}, calendar.Viewer{})

	var ids []string
	for _, day := range view.Days {
		for _, e := range day.Events {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) != 1 || ids[0] != "x" {
		t.Errorf("cats parameter must replace default toggles, got %v", ids)
	}
}

func TestWindow_MineOnly(t *testing.T) {
	src := &fakeSource{events: []calendar.Event{
		{ID: "mine", Category: calendar.CategorySiteVisit, Start: at(2026, time.September, 9, 10), AssigneeID: "u1"},
		{ID: "theirs", Category: calendar.CategorySiteVisit, Start: at(2026, time.September, 9, 11), AssigneeID: "u2"},
	}}
	svc := NewScheduleService(src)

	view := svc.Window(context.Background(), WindowQuery{Anchor: anchor, MineOnly: true},
		calendar.Viewer{ID: "u1", Name: "Dana Reyes"})

	var ids []string
	for _, day := range view.Days {
		for _, e := range day.Events {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) != 1 || ids[0] != "mine" {
		t.Errorf("mine filter should keep only the viewer's events, got %v", ids)
	}
}

func TestRenderICS(t *testing.T) {
	events := []calendar.Event{
		{
			ID:           "o1:site_visit",
			Category:     calendar.CategorySiteVisit,
			Start:        at(2026, time.September, 9, 10),
			Address:      "12 Elm St",
			AssigneeName: "Dana Reyes",
		},
		{ID: "no-start", Category: calendar.CategoryReviewDue},
	}

	out := RenderICS(events, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Fatal("output is not a calendar")
	}
	if !strings.Contains(out, "o1:site_visit@plumbline") {
		t.Error("event UID missing")
	}
	if !strings.Contains(out, "12 Elm St") {
		t.Error("location missing")
	}
	if strings.Count(out, "BEGIN:VEVENT") != 1 {
		t.Error("events without a start time must be skipped")
	}
}
