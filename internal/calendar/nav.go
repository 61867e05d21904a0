package calendar

import (
	"log/slog"
	"time"
)

// ViewMode selects between the rolling multi-week view and the month grid.
type ViewMode string

const (
	// ModeWeeks shows a rolling window of 1, 2, or 4 weeks around the anchor.
	ModeWeeks ViewMode = "weeks"
	// ModeMonth shows a fixed 6-row grid covering the anchor's month.
	ModeMonth ViewMode = "month"
)

// Navigation tracks which slice of the calendar is visible and which single
// day, if any, is expanded into the detail panel. All operations are total:
// invalid input degrades to a logged no-op, never an error. Dates may range
// arbitrarily far into the past or future.
type Navigation struct {
	// Anchor is the reference date that determines the visible window.
	Anchor time.Time

	// Mode selects the weeks view or the month grid.
	Mode ViewMode

	// Weeks is the window size in ModeWeeks: 1, 2, or 4.
	Weeks int

	// Expanded is the single day currently showing its full event list,
	// or nil. At most one day is expanded at a time.
	Expanded *DayKey
}

// NewNavigation returns the default navigation state: a two-week window
// anchored on now, nothing expanded.
func NewNavigation(now time.Time) *Navigation {
	return &Navigation{Anchor: now, Mode: ModeWeeks, Weeks: 2}
}

// Window returns the half-open [start, end) range currently visible.
// The weeks view starts on the Monday of the anchor's week; the month grid
// covers six full weeks starting the Monday on or before the 1st. Both use
// the anchor's location so the day boundaries match DayOf.
func (n *Navigation) Window() (start, end time.Time) {
	switch n.Mode {
	case ModeMonth:
		first := time.Date(n.Anchor.Year(), n.Anchor.Month(), 1, 0, 0, 0, 0, n.Anchor.Location())
		start = startOfWeek(first)
		return start, start.AddDate(0, 0, 6*7)
	default:
		start = startOfWeek(n.Anchor)
		return start, start.AddDate(0, 0, 7*n.Weeks)
	}
}

// Days returns the day keys of the visible window, in order.
func (n *Navigation) Days() []DayKey {
	start, end := n.Window()
	return DaysBetween(start, end)
}

// GoToday re-anchors the window on now. The expanded day survives only if
// the visible window is unchanged; a window jump collapses it like any
// other navigation.
func (n *Navigation) GoToday(now time.Time) {
	n.retarget(func() { n.Anchor = now })
}

// ShiftDay moves the anchor by delta days (keyboard arrow navigation).
func (n *Navigation) ShiftDay(delta int) {
	n.retarget(func() { n.Anchor = n.Anchor.AddDate(0, 0, delta) })
}

// ShiftWeek moves the anchor by delta weeks (keyboard page navigation).
func (n *Navigation) ShiftWeek(delta int) {
	n.retarget(func() { n.Anchor = n.Anchor.AddDate(0, 0, 7*delta) })
}

// ShiftMonth moves the anchor by delta months (month grid prev/next).
func (n *Navigation) ShiftMonth(delta int) {
	n.retarget(func() { n.Anchor = n.Anchor.AddDate(0, delta, 0) })
}

// SetWeeks changes the window size to 1, 2, or 4 weeks and switches to the
// weeks view. The anchor is unchanged. Out-of-set sizes are a logged no-op.
func (n *Navigation) SetWeeks(weeks int) {
	if weeks != 1 && weeks != 2 && weeks != 4 {
		slog.Debug("ignoring invalid calendar window size", slog.Int("weeks", weeks))
		return
	}
	n.retarget(func() {
		n.Mode = ModeWeeks
		n.Weeks = weeks
	})
}

// SetMode switches between the weeks view and the month grid.
func (n *Navigation) SetMode(mode ViewMode) {
	if mode != ModeWeeks && mode != ModeMonth {
		slog.Debug("ignoring invalid calendar view mode", slog.String("mode", string(mode)))
		return
	}
	n.retarget(func() { n.Mode = mode })
}

// ToggleExpand expands the given day's detail panel, or collapses it when
// it is already the expanded day.
func (n *Navigation) ToggleExpand(day DayKey) {
	if n.Expanded != nil && *n.Expanded == day {
		n.Expanded = nil
		return
	}
	d := day
	n.Expanded = &d
}

// CloseExpand collapses the detail panel.
func (n *Navigation) CloseExpand() {
	n.Expanded = nil
}

// ApplyKey maps the keyboard contract onto navigation operations and reports
// whether the key was handled. Bindings are only active while the calendar
// grid has focus; the caller enforces that.
//
//	ArrowLeft / ArrowRight  ±1 day
//	PageUp / PageDown       ±1 week
//	t / T                   go to today
//	Escape                  close the expanded day
func (n *Navigation) ApplyKey(key string, now time.Time) bool {
	switch key {
	case "ArrowLeft":
		n.ShiftDay(-1)
	case "ArrowRight":
		n.ShiftDay(1)
	case "PageUp":
		n.ShiftWeek(-1)
	case "PageDown":
		n.ShiftWeek(1)
	case "t", "T":
		n.GoToday(now)
	case "Escape":
		n.CloseExpand()
	default:
		return false
	}
	return true
}

// retarget runs a window mutation and collapses the expanded day when the
// visible window actually changed, so an expanded day can never scroll out
// of view and stay stuck open.
func (n *Navigation) retarget(mutate func()) {
	beforeStart, beforeEnd := n.Window()
	mutate()
	afterStart, afterEnd := n.Window()
	if !beforeStart.Equal(afterStart) || !beforeEnd.Equal(afterEnd) {
		n.Expanded = nil
	}
}

// startOfWeek returns midnight of the Monday on or before t, in t's location.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(midnight.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return midnight.AddDate(0, 0, -offset)
}
