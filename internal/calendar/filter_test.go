package calendar

import (
	"testing"
	"time"
)

func TestNewFilters_Defaults(t *testing.T) {
	f := NewFilters()
	if !f.CategoryEnabled(CategorySiteVisit) {
		t.Error("site_visit should default on")
	}
	if !f.CategoryEnabled(CategoryReviewDue) {
		t.Error("due_for_review should default on")
	}
	if !f.CategoryEnabled(CategoryClientDue) {
		t.Error("due_to_client should default on")
	}
	if f.CategoryEnabled(CategoryOther) {
		t.Error("other should default off")
	}
	if f.MineOnly {
		t.Error("mine-only should default off")
	}
}

func TestSetCategory_UnknownIsNoOp(t *testing.T) {
	f := NewFilters()
	f.SetCategory(Category("bogus"), true)
	if f.CategoryEnabled(Category("bogus")) {
		t.Error("unknown category must not be registered")
	}
	// The known toggles are untouched.
	if !f.CategoryEnabled(CategorySiteVisit) {
		t.Error("existing toggles must be unaffected")
	}
}

func TestMatch_CategoryToggles(t *testing.T) {
	f := NewFilters()
	viewer := Viewer{ID: "u1", Name: "Dana"}

	visit := Event{Category: CategorySiteVisit, Start: ts(2026, time.September, 1, 9)}
	other := Event{Category: CategoryOther, Start: ts(2026, time.September, 1, 9)}

	if !f.Match(visit, viewer) {
		t.Error("site visit should pass default filters")
	}
	if f.Match(other, viewer) {
		t.Error("other-category event should fail default filters")
	}

	f.SetCategory(CategorySiteVisit, false)
	if f.Match(visit, viewer) {
		t.Error("disabled category should fail")
	}
}

func TestMatch_MineIDTakesPrecedenceOverName(t *testing.T) {
	f := NewFilters()
	f.MineOnly = true

	// Assignee ID matches the viewer but the display name does not contain
	// the viewer's name. ID equality must win.
	e := Event{
		Category:     CategorySiteVisit,
		AssigneeID:   "u1",
		AssigneeName: "Someone Else",
	}
	viewer := Viewer{ID: "u1", Name: "Dana Reyes"}
	if !f.Match(e, viewer) {
		t.Error("ID match must take precedence over name substring")
	}

	// And a mismatched ID fails even when the name would match.
	e2 := Event{
		Category:     CategorySiteVisit,
		AssigneeID:   "u2",
		AssigneeName: "Dana Reyes",
	}
	if f.Match(e2, viewer) {
		t.Error("mismatched ID must fail even with a matching name")
	}
}

func TestMatch_MineNameFallback(t *testing.T) {
	f := NewFilters()
	f.MineOnly = true
	viewer := Viewer{Name: "dana"}

	// Case-insensitive substring fallback when no IDs are available.
	e := Event{Category: CategorySiteVisit, AssigneeName: "Dana Reyes"}
	if !f.Match(e, viewer) {
		t.Error("expected case-insensitive name containment to match")
	}

	// No assignee data at all: fails the mine filter.
	bare := Event{Category: CategorySiteVisit}
	if f.Match(bare, viewer) {
		t.Error("event without assignee data must fail mine filter")
	}
}

func TestApply_Idempotent(t *testing.T) {
	f := NewFilters()
	viewer := Viewer{ID: "u1", Name: "Dana"}
	events := []Event{
		{ID: "a", Category: CategorySiteVisit, Start: ts(2026, time.September, 1, 9)},
		{ID: "b", Category: CategoryOther, Start: ts(2026, time.September, 1, 10)},
		{ID: "c", Category: CategoryReviewDue, Start: ts(2026, time.September, 2, 9)},
	}

	once := f.Apply(events, viewer)
	twice := f.Apply(once, viewer)

	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("position %d: %s != %s", i, once[i].ID, twice[i].ID)
		}
	}
}

// The two-week default-filter scenario: 5 events across the window, of which
// the single other-category event is excluded by the default toggles.
func TestApplyAndBucket_TwoWeekDefaultScenario(t *testing.T) {
	start := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.Local)
	days := DaysBetween(start, start.AddDate(0, 0, 14))

	events := []Event{
		{ID: "v1", Category: CategorySiteVisit, Start: ts(2026, time.September, 8, 10)},
		{ID: "v2", Category: CategorySiteVisit, Start: ts(2026, time.September, 11, 14)},
		{ID: "v3", Category: CategorySiteVisit, Start: ts(2026, time.September, 17, 9)},
		{ID: "r1", Category: CategoryReviewDue, Start: ts(2026, time.September, 15, 17)},
		{ID: "x1", Category: CategoryOther, Start: ts(2026, time.September, 16, 12)},
	}

	f := NewFilters()
	buckets := Bucket(f.Apply(events, Viewer{}), days)

	total := 0
	for _, list := range buckets {
		for _, e := range list {
			if e.ID == "x1" {
				t.Error("other-category event must be excluded by default filters")
			}
			total++
		}
	}
	if total != 4 {
		t.Errorf("expected 4 events after default filtering, got %d", total)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"site_visit", CategorySiteVisit},
		{"due_for_review", CategoryReviewDue},
		{"due_to_client", CategoryClientDue},
		{"other", CategoryOther},
		{"", CategoryOther},
		{"inspection", CategoryOther},
		{"SITE_VISIT", CategoryOther},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.raw); got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDisplayTitle_Fallbacks(t *testing.T) {
	withTitle := Event{Category: CategorySiteVisit, Title: "Walkthrough", Address: "12 Elm St"}
	if got := withTitle.DisplayTitle(); got != "Walkthrough" {
		t.Errorf("expected explicit title, got %q", got)
	}

	withAddress := Event{Category: CategorySiteVisit, Address: "12 Elm St"}
	if got := withAddress.DisplayTitle(); got != "Site visit · 12 Elm St" {
		t.Errorf("unexpected synthesized title %q", got)
	}

	withOrder := Event{Category: CategoryReviewDue, OrderNumber: "2026-0142"}
	if got := withOrder.DisplayTitle(); got != "Review due · 2026-0142" {
		t.Errorf("unexpected synthesized title %q", got)
	}

	bare := Event{Category: CategoryClientDue}
	if got := bare.DisplayTitle(); got != "Due to client" {
		t.Errorf("unexpected bare title %q", got)
	}
}
