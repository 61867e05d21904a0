package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoPreferences is returned when a user has never saved preferences.
// The service substitutes defaults.
var ErrNoPreferences = errors.New("no stored preferences")

// PreferenceRepository defines the data access contract for notification
// preferences.
type PreferenceRepository interface {
	Find(ctx context.Context, userID string) (*Preferences, error)
	Upsert(ctx context.Context, prefs *Preferences) error
}

// preferenceRepository implements PreferenceRepository with MariaDB queries.
type preferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new preference repository.
func NewPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Find retrieves stored preferences, or ErrNoPreferences when absent.
func (r *preferenceRepository) Find(ctx context.Context, userID string) (*Preferences, error) {
	p := &Preferences{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, order_assigned, status_change, due_soon_digest
		 FROM notification_preferences WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.OrderAssigned, &p.StatusChange, &p.DueSoonDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPreferences
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	return p, nil
}

// Upsert inserts or replaces a user's preference row.
func (r *preferenceRepository) Upsert(ctx context.Context, prefs *Preferences) error {
	query := `INSERT INTO notification_preferences (user_id, order_assigned, status_change, due_soon_digest)
	          VALUES (?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE order_assigned = VALUES(order_assigned),
	              status_change = VALUES(status_change),
	              due_soon_digest = VALUES(due_soon_digest)`

	_, err := r.db.ExecContext(ctx, query,
		prefs.UserID, prefs.OrderAssigned, prefs.StatusChange, prefs.DueSoonDigest)
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}
