// Package calendar implements the scheduling view engine shared by the
// two-week and month calendar screens: normalizing heterogeneous schedule
// rows into one event shape, filtering them against the viewer's toggles,
// bucketing them by local calendar day, scoring per-day occupancy for the
// heat tint, and tracking the navigation/expansion state of the visible
// window. The package has no HTTP or SQL dependencies; the orders plugin
// supplies events through the Source interface and the schedule plugin
// exposes the results over the API.
package calendar

import "time"

// Category classifies a calendar event for filtering and display.
type Category string

// The closed set of event categories. Anything else normalizes to
// CategoryOther, which the default filters exclude.
const (
	CategorySiteVisit Category = "site_visit"
	CategoryReviewDue Category = "due_for_review"
	CategoryClientDue Category = "due_to_client"
	CategoryOther     Category = "other"
)

// ParseCategory normalizes a raw category tag to the closed set.
// Unrecognized or empty values become CategoryOther rather than an error,
// so one malformed row never aborts processing of the rest.
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategorySiteVisit, CategoryReviewDue, CategoryClientDue:
		return Category(raw)
	}
	return CategoryOther
}

// Label returns the human-readable name for a category.
func (c Category) Label() string {
	switch c {
	case CategorySiteVisit:
		return "Site visit"
	case CategoryReviewDue:
		return "Review due"
	case CategoryClientDue:
		return "Due to client"
	}
	return "Other"
}

// Event is the normalized calendar event shape. The orders plugin maps its
// schedule rows (site visits, review due dates, client due dates) into this
// shape before the engine ever sees them.
type Event struct {
	// ID is an opaque unique identifier.
	ID string `json:"id"`

	// Category is always one of the closed set (see ParseCategory).
	Category Category `json:"category"`

	// Title is the display string. May be empty; use DisplayTitle.
	Title string `json:"title"`

	// Start is the event timestamp used for day bucketing. A nil Start marks
	// a row whose timestamp could not be parsed; such events are dropped
	// before bucketing and never counted toward heat.
	Start *time.Time `json:"start"`

	// End is optional and informational only (not used in bucketing).
	End *time.Time `json:"end,omitempty"`

	// OrderID and OrderNumber reference the order for click-through
	// navigation. Never used for engine logic.
	OrderID     string `json:"order_id,omitempty"`
	OrderNumber string `json:"order_number,omitempty"`

	// Address is the property address, used for synthesized titles.
	Address string `json:"address,omitempty"`

	// AssigneeID and AssigneeName identify who the event belongs to,
	// consumed by the "mine" filter.
	AssigneeID   string `json:"assignee_id,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
}

// DisplayTitle returns the event title, synthesizing a label from the
// category and address or order reference when no title is set.
func (e Event) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	switch {
	case e.Address != "":
		return e.Category.Label() + " · " + e.Address
	case e.OrderNumber != "":
		return e.Category.Label() + " · " + e.OrderNumber
	}
	return e.Category.Label()
}
