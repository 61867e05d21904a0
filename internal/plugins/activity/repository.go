package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityRepository defines the data access contract for the feed.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, int, error)

	// DeleteOlderThan removes entries created before the cutoff and returns
	// how many rows were pruned.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// activityRepository implements ActivityRepository with MariaDB queries.
type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Insert appends a new feed entry.
func (r *activityRepository) Insert(ctx context.Context, entry *Entry) error {
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return fmt.Errorf("marshaling entry meta: %w", err)
	}

	query := `INSERT INTO activity_entries (actor_id, actor_name, verb, object_type, object_id, object_label, meta, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		entry.ActorID, entry.ActorName, entry.Verb,
		entry.ObjectType, entry.ObjectID, entry.ObjectLabel,
		metaJSON, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting activity entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns feed entries newest first, optionally scoped to one object.
func (r *activityRepository) List(ctx context.Context, opts ListOptions) ([]Entry, int, error) {
	where := "WHERE 1=1"
	args := []any{}

	if opts.ObjectType != "" {
		where += " AND object_type = ?"
		args = append(args, opts.ObjectType)
	}
	if opts.ObjectID != "" {
		where += " AND object_id = ?"
		args = append(args, opts.ObjectID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activity_entries %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting activity entries: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, actor_id, actor_name, verb, object_type, object_id, object_label, meta, created_at
	          FROM activity_entries %s ORDER BY id DESC LIMIT ? OFFSET ?`, where)

	pageArgs := append(args, opts.PerPage, opts.Offset())
	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing activity entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var metaRaw []byte
		if err := rows.Scan(
			&e.ID, &e.ActorID, &e.ActorName, &e.Verb,
			&e.ObjectType, &e.ObjectID, &e.ObjectLabel,
			&metaRaw, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning activity row: %w", err)
		}
		if len(metaRaw) > 0 {
			_ = json.Unmarshal(metaRaw, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// DeleteOlderThan prunes entries past the retention window.
func (r *activityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_entries WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning activity entries: %w", err)
	}
	return result.RowsAffected()
}
