package orders

import "time"

// Status is the lifecycle state of an appraisal order.
type Status string

const (
	StatusNew       Status = "new"
	StatusScheduled Status = "scheduled"
	StatusInspected Status = "inspected"
	StatusInReview  Status = "in_review"
	StatusRevisions Status = "revisions"
	StatusCompleted Status = "completed"
	StatusDelivered Status = "delivered"
	StatusOnHold    Status = "on_hold"
	StatusCancelled Status = "cancelled"
)

// forwardTransitions maps each status to the states it may advance to.
// on_hold and cancelled are reachable from any non-terminal state and are
// handled separately in CanTransition.
var forwardTransitions = map[Status][]Status{
	StatusNew:       {StatusScheduled},
	StatusScheduled: {StatusInspected},
	StatusInspected: {StatusInReview},
	StatusInReview:  {StatusRevisions, StatusCompleted},
	StatusRevisions: {StatusInReview, StatusCompleted},
	StatusCompleted: {StatusDelivered},
	StatusOnHold:    {StatusNew, StatusScheduled, StatusInspected, StatusInReview, StatusRevisions, StatusCompleted},
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusScheduled, StatusInspected, StatusInReview,
		StatusRevisions, StatusCompleted, StatusDelivered, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
func (s Status) CanTransition(next Status) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	if next == StatusOnHold || next == StatusCancelled {
		return true
	}
	for _, allowed := range forwardTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Label returns the status name for display and activity summaries.
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusScheduled:
		return "Scheduled"
	case StatusInspected:
		return "Inspected"
	case StatusInReview:
		return "In review"
	case StatusRevisions:
		return "Revisions"
	case StatusCompleted:
		return "Completed"
	case StatusDelivered:
		return "Delivered"
	case StatusOnHold:
		return "On hold"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Order is an appraisal order moving through the office workflow.
type Order struct {
	ID          string     `json:"id"`
	Number      string     `json:"number"`
	ClientID    string     `json:"client_id"`
	Address     string     `json:"address"`
	Status      Status     `json:"status"`
	AppraiserID *string    `json:"appraiser_id,omitempty"`
	ReviewerID  *string    `json:"reviewer_id,omitempty"`
	FeeCents    int64      `json:"fee_cents"`
	SiteVisitAt *time.Time `json:"site_visit_at,omitempty"`
	ReviewDueAt *time.Time `json:"review_due_at,omitempty"`
	ClientDueAt *time.Time `json:"client_due_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`

	// Joined display fields, populated by list and detail queries.
	ClientName    string  `json:"client_name,omitempty"`
	AppraiserName *string `json:"appraiser_name,omitempty"`
	ReviewerName  *string `json:"reviewer_name,omitempty"`
}

// ScheduleEntryKind identifies which date column a schedule row came from.
type ScheduleEntryKind string

const (
	EntrySiteVisit ScheduleEntryKind = "site_visit"
	EntryReviewDue ScheduleEntryKind = "review_due"
	EntryClientDue ScheduleEntryKind = "client_due"
)

// ScheduleEntry is one dated row from the orders table, before it is
// normalized into a calendar event.
type ScheduleEntry struct {
	Kind         ScheduleEntryKind
	OrderID      string
	OrderNumber  string
	Address      string
	At           time.Time
	AssigneeID   *string
	AssigneeName *string
}

// CreateOrderInput carries the fields accepted when creating an order.
type CreateOrderInput struct {
	ClientID    string     `json:"client_id"`
	Address     string     `json:"address"`
	AppraiserID *string    `json:"appraiser_id"`
	ReviewerID  *string    `json:"reviewer_id"`
	FeeCents    int64      `json:"fee_cents"`
	SiteVisitAt *time.Time `json:"site_visit_at"`
	ReviewDueAt *time.Time `json:"review_due_at"`
	ClientDueAt *time.Time `json:"client_due_at"`
	Notes       string     `json:"notes"`
}

// UpdateOrderInput carries the fields accepted when updating an order.
// Status is not updatable here; use the status transition endpoint.
type UpdateOrderInput struct {
	Address     string     `json:"address"`
	AppraiserID *string    `json:"appraiser_id"`
	ReviewerID  *string    `json:"reviewer_id"`
	FeeCents    int64      `json:"fee_cents"`
	SiteVisitAt *time.Time `json:"site_visit_at"`
	ReviewDueAt *time.Time `json:"review_due_at"`
	ClientDueAt *time.Time `json:"client_due_at"`
	Notes       string     `json:"notes"`
}

// ListOptions controls pagination and filtering for order listings.
type ListOptions struct {
	Page    int
	PerPage int
	Status  Status
}

// Offset converts the page number to a SQL offset.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}
