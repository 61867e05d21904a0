package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/plumbline-app/plumbline/internal/calendar"
)

// EventSource adapts the order schedule into calendar events. It satisfies
// calendar.Source for the schedule view.
type EventSource struct {
	orders OrderRepository
}

// NewEventSource creates a calendar event source backed by the orders table.
func NewEventSource(orders OrderRepository) *EventSource {
	return &EventSource{orders: orders}
}

// EventsBetween returns all dated order rows in [start, end) normalized into
// calendar events. One order can yield a site visit, a review deadline, and a
// client deadline as three separate events.
func (s *EventSource) EventsBetween(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	entries, err := s.orders.ScheduleBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading order schedule: %w", err)
	}

	events := make([]calendar.Event, 0, len(entries))
	for _, entry := range entries {
		at := entry.At
		e := calendar.Event{
			ID:          fmt.Sprintf("%s:%s", entry.OrderID, entry.Kind),
			Category:    entryCategory(entry.Kind),
			Start:       &at,
			OrderID:     entry.OrderID,
			OrderNumber: entry.OrderNumber,
			Address:     entry.Address,
		}
		if entry.AssigneeID != nil {
			e.AssigneeID = *entry.AssigneeID
		}
		if entry.AssigneeName != nil {
			e.AssigneeName = *entry.AssigneeName
		}
		events = append(events, e)
	}
	return events, nil
}

// entryCategory maps a schedule row kind onto its calendar category.
func entryCategory(kind ScheduleEntryKind) calendar.Category {
	switch kind {
	case EntrySiteVisit:
		return calendar.CategorySiteVisit
	case EntryReviewDue:
		return calendar.CategoryReviewDue
	case EntryClientDue:
		return calendar.CategoryClientDue
	}
	return calendar.CategoryOther
}
