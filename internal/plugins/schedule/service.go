// Package schedule is the HTTP surface of the calendar pipeline: it turns a
// window query plus the session viewer into filtered, bucketed, heat-scored
// days, and renders the same window as an ICS feed.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/plumbline-app/plumbline/internal/calendar"
)

// WindowQuery carries the parsed query parameters for one schedule request.
type WindowQuery struct {
	Anchor     time.Time
	Weeks      int
	Mode       calendar.ViewMode
	Categories []calendar.Category // nil means the default toggles
	MineOnly   bool
}

// DayView is one rendered day of the schedule.
type DayView struct {
	Date   string           `json:"date"`
	Heat   float64          `json:"heat"`
	Events []calendar.Event `json:"events"`
}

// WindowView is the full response for a schedule window.
type WindowView struct {
	Days   []DayView `json:"days"`
	Window struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"window"`
}

// ScheduleService computes schedule windows from the event source.
type ScheduleService interface {
	Window(ctx context.Context, q WindowQuery, viewer calendar.Viewer) WindowView

	// WindowEvents returns the filtered flat event list for a window, used
	// by the ICS export.
	WindowEvents(ctx context.Context, q WindowQuery, viewer calendar.Viewer) ([]calendar.Event, time.Time, time.Time)
}

// scheduleService implements ScheduleService.
type scheduleService struct {
	source calendar.Source
}

// NewScheduleService creates a schedule service over the given event source.
func NewScheduleService(source calendar.Source) ScheduleService {
	return &scheduleService{source: source}
}

// navigation builds the window geometry for a query.
func navigation(q WindowQuery) *calendar.Navigation {
	nav := calendar.NewNavigation(q.Anchor)
	if q.Weeks != 0 {
		nav.SetWeeks(q.Weeks)
	}
	if q.Mode == calendar.ModeMonth {
		nav.SetMode(calendar.ModeMonth)
	}
	return nav
}

// filters builds the predicate set for a query.
func filters(q WindowQuery) calendar.Filters {
	f := calendar.NewFilters()
	if q.Categories != nil {
		// An explicit cats parameter replaces the defaults entirely.
		for _, cat := range []calendar.Category{
			calendar.CategorySiteVisit, calendar.CategoryReviewDue,
			calendar.CategoryClientDue, calendar.CategoryOther,
		} {
			f.SetCategory(cat, false)
		}
		for _, cat := range q.Categories {
			f.SetCategory(cat, true)
		}
	}
	f.MineOnly = q.MineOnly
	return f
}

// fetch loads and filters the window's events. A failing source renders as
// an empty schedule, never an error.
func (s *scheduleService) fetch(ctx context.Context, q WindowQuery, viewer calendar.Viewer) ([]calendar.Event, time.Time, time.Time) {
	nav := navigation(q)
	start, end := nav.Window()

	events, err := s.source.EventsBetween(ctx, start, end)
	if err != nil {
		slog.Error("schedule fetch failed",
			slog.Time("start", start),
			slog.Time("end", end),
			slog.Any("error", err),
		)
		events = nil
	}

	f := filters(q)
	return f.Apply(events, viewer), start, end
}

// Window computes the bucketed, heat-scored response for a query.
func (s *scheduleService) Window(ctx context.Context, q WindowQuery, viewer calendar.Viewer) WindowView {
	events, start, end := s.fetch(ctx, q, viewer)

	days := calendar.DaysBetween(start, end)
	buckets := calendar.Bucket(events, days)
	heat := calendar.Heat(buckets)

	view := WindowView{Days: make([]DayView, 0, len(days))}
	view.Window.Start = start
	view.Window.End = end
	for _, day := range days {
		view.Days = append(view.Days, DayView{
			Date:   day.String(),
			Heat:   heat[day],
			Events: buckets[day],
		})
	}
	return view
}

// WindowEvents returns the filtered flat list for a window.
func (s *scheduleService) WindowEvents(ctx context.Context, q WindowQuery, viewer calendar.Viewer) ([]calendar.Event, time.Time, time.Time) {
	return s.fetch(ctx, q, viewer)
}
