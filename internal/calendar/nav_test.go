package calendar

import (
	"testing"
	"time"
)

// wednesday is a fixed mid-week anchor for navigation tests.
var wednesday = time.Date(2026, time.September, 9, 15, 30, 0, 0, time.Local)

func TestWindow_StartsOnMonday(t *testing.T) {
	n := NewNavigation(wednesday)
	start, end := n.Window()

	if start.Weekday() != time.Monday {
		t.Errorf("window start should be Monday, got %s", start.Weekday())
	}
	wantStart := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}
	if got := end.Sub(start); got != 14*24*time.Hour {
		t.Errorf("default window should span 14 days, got %v", got)
	}
}

func TestWindow_SizeFollowsWeeks(t *testing.T) {
	n := NewNavigation(wednesday)
	for _, weeks := range []int{1, 2, 4} {
		n.SetWeeks(weeks)
		if len(n.Days()) != 7*weeks {
			t.Errorf("weeks=%d: expected %d days, got %d", weeks, 7*weeks, len(n.Days()))
		}
	}
}

func TestSetWeeks_InvalidIsNoOp(t *testing.T) {
	n := NewNavigation(wednesday)
	n.SetWeeks(3)
	if n.Weeks != 2 {
		t.Errorf("invalid window size must be ignored, got weeks=%d", n.Weeks)
	}
}

func TestWindow_MonthGridIsSixWeeks(t *testing.T) {
	n := NewNavigation(wednesday)
	n.SetMode(ModeMonth)

	days := n.Days()
	if len(days) != 42 {
		t.Fatalf("month grid should cover 42 days, got %d", len(days))
	}
	start, _ := n.Window()
	if start.Weekday() != time.Monday {
		t.Errorf("month grid should start on Monday, got %s", start.Weekday())
	}
	if start.After(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local)) {
		t.Error("month grid must start on or before the 1st")
	}
}

func TestToggleExpand_Exclusive(t *testing.T) {
	n := NewNavigation(wednesday)
	a := DayKey{Year: 2026, Month: time.September, Day: 9}
	b := DayKey{Year: 2026, Month: time.September, Day: 10}

	n.ToggleExpand(a)
	if n.Expanded == nil || *n.Expanded != a {
		t.Fatal("expected day A expanded")
	}

	n.ToggleExpand(b)
	if n.Expanded == nil || *n.Expanded != b {
		t.Error("expanding B must replace A (single expanded day)")
	}

	// Toggling the expanded day again collapses it.
	n.ToggleExpand(b)
	if n.Expanded != nil {
		t.Error("toggling the expanded day must collapse it")
	}
}

func TestWindowChange_ResetsExpansion(t *testing.T) {
	n := NewNavigation(wednesday)
	a := DayKey{Year: 2026, Month: time.September, Day: 9}
	n.ToggleExpand(a)

	n.SetWeeks(4)
	if n.Expanded != nil {
		t.Error("changing the window size must collapse the expanded day")
	}

	n.ToggleExpand(a)
	n.ShiftWeek(1)
	if n.Expanded != nil {
		t.Error("paging must collapse the expanded day")
	}
}

func TestShiftDay_WithinSameWindowKeepsExpansion(t *testing.T) {
	n := NewNavigation(wednesday)
	a := DayKey{Year: 2026, Month: time.September, Day: 9}
	n.ToggleExpand(a)

	// Wednesday -> Thursday stays inside the same Monday-anchored window.
	n.ShiftDay(1)
	if n.Expanded == nil {
		t.Error("anchor move within the same window must keep the expansion")
	}
}

func TestGoToday_KeepsExpansionWhenWindowUnchanged(t *testing.T) {
	n := NewNavigation(wednesday)
	a := DayKey{Year: 2026, Month: time.September, Day: 9}
	n.ToggleExpand(a)

	// "Today" is already inside the visible window: nothing moves.
	n.GoToday(wednesday.Add(2 * time.Hour))
	if n.Expanded == nil {
		t.Error("goToday within the current window must not collapse the expansion")
	}

	// Jumping from a far-away window collapses it.
	n.ShiftWeek(10)
	n.ToggleExpand(a)
	n.GoToday(wednesday)
	if n.Expanded != nil {
		t.Error("goToday that moves the window must collapse the expansion")
	}
}

func TestApplyKey_Bindings(t *testing.T) {
	n := NewNavigation(wednesday)
	anchor := n.Anchor

	if !n.ApplyKey("ArrowRight", wednesday) {
		t.Fatal("ArrowRight should be handled")
	}
	if got := n.Anchor.Sub(anchor); got != 24*time.Hour {
		t.Errorf("ArrowRight should move one day, moved %v", got)
	}

	n.ApplyKey("ArrowLeft", wednesday)
	if !n.Anchor.Equal(anchor) {
		t.Error("ArrowLeft should undo ArrowRight")
	}

	n.ApplyKey("PageDown", wednesday)
	if got := n.Anchor.Sub(anchor); got != 7*24*time.Hour {
		t.Errorf("PageDown should move one week, moved %v", got)
	}

	n.ApplyKey("t", wednesday)
	if !n.Anchor.Equal(wednesday) {
		t.Error("t should return to today")
	}

	day := DayOf(wednesday)
	n.ToggleExpand(day)
	n.ApplyKey("Escape", wednesday)
	if n.Expanded != nil {
		t.Error("Escape should close the expanded day")
	}

	if n.ApplyKey("x", wednesday) {
		t.Error("unknown keys must not be handled")
	}
}

func TestNavigation_UnboundedRange(t *testing.T) {
	n := NewNavigation(wednesday)
	n.ShiftWeek(-5200) // a century back
	if len(n.Days()) != 14 {
		t.Error("window must stay well-formed arbitrarily far in the past")
	}
	n.ShiftWeek(10400) // a century forward
	if len(n.Days()) != 14 {
		t.Error("window must stay well-formed arbitrarily far in the future")
	}
}
