package calendar

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Source supplies the events for a half-open [start, end) window. A window
// with no events resolves as an empty slice, not an error. Implemented by
// the orders plugin's schedule queries.
type Source interface {
	EventsBetween(ctx context.Context, start, end time.Time) ([]Event, error)
}

// View is the stateful controller for one calendar screen: navigation,
// filters, the viewer identity, and the most recently fetched event set.
// Each screen owns its own View; there is no cross-view sharing.
//
// The only asynchronous operation is the Source fetch. Every Refresh is
// stamped with a monotonically increasing generation; a fetch that completes
// after a newer one has been issued is discarded, so the displayed events
// always correspond to the currently visible window even when an older,
// slower fetch resolves last.
type View struct {
	mu      sync.Mutex
	nav     *Navigation
	filters Filters
	viewer  Viewer
	source  Source

	gen     uint64  // latest issued fetch generation
	events  []Event // raw events of the newest completed fetch
	loaded  bool    // false until the first fetch completes
}

// Snapshot is the render-ready output of the engine for the visible window:
// the ordered days, the filtered-and-sorted bucket per day, and the per-day
// heat score. Handed to the presentation layer as-is.
type Snapshot struct {
	Days     []DayKey
	Buckets  map[DayKey][]Event
	Heat     map[DayKey]float64
	Start    time.Time
	End      time.Time
	Expanded *DayKey
	Loaded   bool
}

// NewView creates a calendar view for the given viewer with default
// navigation (two weeks around now) and default filters.
func NewView(source Source, viewer Viewer, now time.Time) *View {
	return &View{
		nav:     NewNavigation(now),
		filters: NewFilters(),
		viewer:  viewer,
		source:  source,
	}
}

// Refresh fetches events for the current window. Fail-open: a fetch error is
// logged and treated as zero events for the window, so the calendar renders
// empty rather than crashing the screen. A Refresh superseded by a newer one
// while in flight leaves no visible trace.
func (v *View) Refresh(ctx context.Context) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	start, end := v.nav.Window()
	source := v.source
	v.mu.Unlock()

	events, err := source.EventsBetween(ctx, start, end)
	if err != nil {
		slog.Warn("calendar fetch failed, rendering empty window",
			slog.Time("start", start),
			slog.Time("end", end),
			slog.Any("error", err),
		)
		events = nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	// Discard stale completions: a newer fetch has been issued since.
	if gen != v.gen {
		return
	}
	v.events = events
	v.loaded = true
}

// Snapshot computes the bucketed, filtered, heat-scored output for the
// current window from the newest completed fetch.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	start, end := v.nav.Window()
	days := v.nav.Days()
	filtered := v.filters.Apply(v.events, v.viewer)
	buckets := Bucket(filtered, days)

	return Snapshot{
		Days:     days,
		Buckets:  buckets,
		Heat:     Heat(buckets),
		Start:    start,
		End:      end,
		Expanded: v.nav.Expanded,
		Loaded:   v.loaded,
	}
}

// --- Navigation and filter mutators ---
//
// All mutators take the view lock so a keyboard handler and a background
// refresh cannot race. None of them fetch; callers decide when to Refresh.

// GoToday re-anchors the window on now.
func (v *View) GoToday(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.GoToday(now)
}

// ShiftDay moves the anchor by delta days.
func (v *View) ShiftDay(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.ShiftDay(delta)
}

// ShiftWeek moves the anchor by delta weeks.
func (v *View) ShiftWeek(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.ShiftWeek(delta)
}

// SetWeeks changes the window size (1, 2, or 4 weeks).
func (v *View) SetWeeks(weeks int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.SetWeeks(weeks)
}

// SetMode switches between the weeks view and the month grid.
func (v *View) SetMode(mode ViewMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.SetMode(mode)
}

// ToggleExpand expands or collapses a day's detail panel.
func (v *View) ToggleExpand(day DayKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.ToggleExpand(day)
}

// CloseExpand collapses the detail panel.
func (v *View) CloseExpand() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.CloseExpand()
}

// ApplyKey forwards a keyboard event to the navigation state machine and
// reports whether it was handled.
func (v *View) ApplyKey(key string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nav.ApplyKey(key, now)
}

// SetCategory toggles a category filter.
func (v *View) SetCategory(cat Category, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters.SetCategory(cat, enabled)
}

// SetMineOnly toggles the "mine only" filter.
func (v *View) SetMineOnly(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters.MineOnly = enabled
}
