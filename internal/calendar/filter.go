package calendar

import (
	"log/slog"
	"strings"
)

// Viewer is the identity of the signed-in user, supplied explicitly by the
// auth layer rather than read from ambient state so the predicate stays a
// pure function.
type Viewer struct {
	ID   string
	Name string
}

// Filters holds the per-category visibility toggles plus the "mine only"
// toggle. Filters are per-view values with no persistence: a fresh calendar
// view starts from defaults, which keeps a returning user from being
// surprised by a stale filter set.
type Filters struct {
	categories map[Category]bool

	// MineOnly restricts the view to events assigned to the viewer.
	MineOnly bool
}

// NewFilters returns the default filter set: the three named categories
// enabled, the "other" bucket and "mine only" disabled.
func NewFilters() Filters {
	return Filters{
		categories: map[Category]bool{
			CategorySiteVisit: true,
			CategoryReviewDue: true,
			CategoryClientDue: true,
			CategoryOther:     false,
		},
	}
}

// SetCategory enables or disables a category toggle. An out-of-set category
// is a logged no-op -- this backs an interactive view where throwing would
// blank the whole screen.
func (f *Filters) SetCategory(cat Category, enabled bool) {
	if _, ok := f.categories[cat]; !ok {
		slog.Debug("ignoring unknown calendar filter category", slog.String("category", string(cat)))
		return
	}
	f.categories[cat] = enabled
}

// CategoryEnabled reports whether a category toggle is on.
func (f *Filters) CategoryEnabled(cat Category) bool {
	return f.categories[cat]
}

// Match reports whether an event passes the current toggles for the given
// viewer. Pure and side-effect-free: applying it twice yields the same set.
func (f *Filters) Match(e Event, viewer Viewer) bool {
	if !f.categories[e.Category] {
		return false
	}
	if !f.MineOnly {
		return true
	}
	return isMine(e, viewer)
}

// Apply returns the events passing Match, preserving input order.
func (f *Filters) Apply(events []Event, viewer Viewer) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Match(e, viewer) {
			out = append(out, e)
		}
	}
	return out
}

// isMine decides assignment in order of precedence: exact ID equality when
// both the event and the viewer expose one, then case-insensitive substring
// containment of the viewer's name in the assignee display name. The
// substring fallback is a legacy behavior kept for rows where upstream data
// lacks a stable assignee id; it is known to over-match short names
// ("Ann" matches "Joanna"). Events with neither field fail the filter.
func isMine(e Event, viewer Viewer) bool {
	if e.AssigneeID != "" && viewer.ID != "" {
		return e.AssigneeID == viewer.ID
	}
	if e.AssigneeName != "" && viewer.Name != "" {
		return strings.Contains(strings.ToLower(e.AssigneeName), strings.ToLower(viewer.Name))
	}
	return false
}
