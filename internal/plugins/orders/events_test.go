package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plumbline-app/plumbline/internal/calendar"
)

func TestEventsBetween_NormalizesScheduleRows(t *testing.T) {
	visit := time.Date(2026, time.September, 9, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.September, 12, 17, 0, 0, 0, time.UTC)
	appraiser := "u1"
	appraiserName := "Dana Reyes"

	repo := &mockOrderRepo{
		scheduleFn: func(ctx context.Context, start, end time.Time) ([]ScheduleEntry, error) {
			return []ScheduleEntry{
				{Kind: EntrySiteVisit, OrderID: "o1", OrderNumber: "2026-0001", Address: "12 Elm St", At: visit, AssigneeID: &appraiser, AssigneeName: &appraiserName},
				{Kind: EntryReviewDue, OrderID: "o1", OrderNumber: "2026-0001", Address: "12 Elm St", At: due},
				{Kind: EntryClientDue, OrderID: "o2", OrderNumber: "2026-0002", Address: "9 Oak Ave", At: due},
			}, nil
		},
	}

	src := NewEventSource(repo)
	events, err := src.EventsBetween(context.Background(), visit, due.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	first := events[0]
	if first.Category != calendar.CategorySiteVisit {
		t.Errorf("expected site_visit category, got %s", first.Category)
	}
	if first.ID != "o1:site_visit" {
		t.Errorf("event IDs must be unique per order and kind, got %s", first.ID)
	}
	if first.Start == nil || !first.Start.Equal(visit) {
		t.Error("event start must carry the schedule timestamp")
	}
	if first.AssigneeID != "u1" || first.AssigneeName != "Dana Reyes" {
		t.Errorf("assignee fields not mapped: %q %q", first.AssigneeID, first.AssigneeName)
	}

	if events[1].Category != calendar.CategoryReviewDue {
		t.Errorf("expected due_for_review, got %s", events[1].Category)
	}
	if events[1].AssigneeID != "" {
		t.Error("missing assignee must map to empty fields")
	}
	if events[2].Category != calendar.CategoryClientDue {
		t.Errorf("expected due_to_client, got %s", events[2].Category)
	}
}

func TestEventsBetween_PropagatesRepositoryErrors(t *testing.T) {
	repo := &mockOrderRepo{
		scheduleFn: func(ctx context.Context, start, end time.Time) ([]ScheduleEntry, error) {
			return nil, errors.New("db down")
		},
	}

	src := NewEventSource(repo)
	if _, err := src.EventsBetween(context.Background(), time.Now(), time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected repository error to propagate")
	}
}
