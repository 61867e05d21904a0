package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// UserSource resolves actor IDs to accounts so feed entries can carry a
// display name. Satisfied by the auth service.
type UserSource interface {
	GetUser(ctx context.Context, id string) (*auth.User, error)
}

// ActivityService handles recording and listing the office feed. It also
// satisfies the orders plugin's Recorder interface.
type ActivityService interface {
	Record(ctx context.Context, entry Entry) error
	RecordOrderEvent(ctx context.Context, actorID, action, orderID, orderNumber, detail string)
	List(ctx context.Context, opts ListOptions) ([]Entry, int, error)
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// activityService implements ActivityService.
type activityService struct {
	entries ActivityRepository
	users   UserSource
	now     func() time.Time
}

// NewActivityService creates a new activity service.
func NewActivityService(entries ActivityRepository, users UserSource) ActivityService {
	return &activityService{
		entries: entries,
		users:   users,
		now:     time.Now,
	}
}

// Record validates minimally and appends an entry to the feed.
func (s *activityService) Record(ctx context.Context, entry Entry) error {
	if entry.Verb == "" {
		return fmt.Errorf("activity entry needs a verb")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	return s.entries.Insert(ctx, &entry)
}

// RecordOrderEvent appends an order action to the feed. Feed failures are
// logged and swallowed so they never fail the order operation itself.
func (s *activityService) RecordOrderEvent(ctx context.Context, actorID, action, orderID, orderNumber, detail string) {
	entry := Entry{
		ActorID:     actorID,
		Verb:        action,
		ObjectType:  "order",
		ObjectID:    orderID,
		ObjectLabel: orderNumber,
		CreatedAt:   s.now().UTC(),
	}
	if detail != "" {
		entry.Meta = map[string]string{"detail": detail}
	}

	if actorID != "" {
		if user, err := s.users.GetUser(ctx, actorID); err == nil {
			entry.ActorName = user.DisplayName
		}
	}

	if err := s.entries.Insert(ctx, &entry); err != nil {
		slog.Warn("failed to record activity entry",
			slog.String("verb", action),
			slog.String("object_id", orderID),
			slog.Any("error", err),
		)
	}
}

// List returns feed entries with their rendered sentences.
func (s *activityService) List(ctx context.Context, opts ListOptions) ([]Entry, int, error) {
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = 50
	}
	if opts.Page < 1 {
		opts.Page = 1
	}

	entries, total, err := s.entries.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	for i := range entries {
		entries[i].Sentence = Sentence(entries[i])
	}
	return entries, total, nil
}

// Prune removes entries older than the retention window.
func (s *activityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-retention)
	pruned, err := s.entries.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		slog.Info("pruned activity feed",
			slog.Int64("entries", pruned),
			slog.Time("cutoff", cutoff),
		)
	}
	return pruned, nil
}

// RegisterRetentionJob schedules the nightly feed prune on the given cron
// runner. The spec is standard 5-field cron syntax from configuration.
func RegisterRetentionJob(c *cron.Cron, svc ActivityService, retention time.Duration, spec string) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := svc.Prune(ctx, retention); err != nil {
			slog.Error("activity retention prune failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling activity prune: %w", err)
	}
	return nil
}
