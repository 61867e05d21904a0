package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// OrderRepository defines the data access contract for order operations.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	Update(ctx context.Context, order *Order) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Order, int, error)

	// NextSequence atomically increments and returns the per-year order
	// counter used for number allocation.
	NextSequence(ctx context.Context, year int) (int, error)

	// ScheduleBetween returns every dated order row whose timestamp falls in
	// [start, end): site visits, review deadlines, and client deadlines.
	ScheduleBetween(ctx context.Context, start, end time.Time) ([]ScheduleEntry, error)
}

// orderRepository implements OrderRepository with MariaDB queries.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `o.id, o.number, o.client_id, o.address, o.status,
	o.appraiser_id, o.reviewer_id, o.fee_cents,
	o.site_visit_at, o.review_due_at, o.client_due_at,
	o.notes, o.created_at, o.updated_at,
	c.name, a.display_name, r.display_name`

const orderJoins = `FROM orders o
	INNER JOIN clients c ON c.id = o.client_id
	LEFT JOIN users a ON a.id = o.appraiser_id
	LEFT JOIN users r ON r.id = o.reviewer_id`

// Create inserts a new order row.
func (r *orderRepository) Create(ctx context.Context, order *Order) error {
	query := `INSERT INTO orders (id, number, client_id, address, status,
	          appraiser_id, reviewer_id, fee_cents,
	          site_visit_at, review_due_at, client_due_at,
	          notes, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.Number, order.ClientID, order.Address, order.Status,
		order.AppraiserID, order.ReviewerID, order.FeeCents,
		order.SiteVisitAt, order.ReviewDueAt, order.ClientDueAt,
		order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// FindByID retrieves an order with joined client and assignee names.
func (r *orderRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE o.id = ? AND o.deleted_at IS NULL`, orderColumns, orderJoins)
	return r.scanOrder(r.db.QueryRowContext(ctx, query, id))
}

// FindByNumber retrieves an order by its display number.
func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE o.number = ? AND o.deleted_at IS NULL`, orderColumns, orderJoins)
	return r.scanOrder(r.db.QueryRowContext(ctx, query, number))
}

// scanOrder scans a single order row with joined display fields.
func (r *orderRepository) scanOrder(row *sql.Row) (*Order, error) {
	o := &Order{}
	err := row.Scan(
		&o.ID, &o.Number, &o.ClientID, &o.Address, &o.Status,
		&o.AppraiserID, &o.ReviewerID, &o.FeeCents,
		&o.SiteVisitAt, &o.ReviewDueAt, &o.ClientDueAt,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt,
		&o.ClientName, &o.AppraiserName, &o.ReviewerName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning order: %w", err)
	}
	return o, nil
}

// Update modifies an existing order's editable fields.
func (r *orderRepository) Update(ctx context.Context, order *Order) error {
	query := `UPDATE orders SET address = ?, appraiser_id = ?, reviewer_id = ?,
	          fee_cents = ?, site_visit_at = ?, review_due_at = ?, client_due_at = ?,
	          notes = ?, updated_at = ?
	          WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		order.Address, order.AppraiserID, order.ReviewerID,
		order.FeeCents, order.SiteVisitAt, order.ReviewDueAt, order.ClientDueAt,
		order.Notes, order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperror.NewNotFound("order not found")
	}
	return nil
}

// UpdateStatus sets only the status column.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ? AND deleted_at IS NULL`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperror.NewNotFound("order not found")
	}
	return nil
}

// SoftDelete marks an order as deleted without removing the row.
func (r *orderRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperror.NewNotFound("order not found")
	}
	return nil
}

// List returns orders with pagination and an optional status filter,
// newest first.
func (r *orderRepository) List(ctx context.Context, opts ListOptions) ([]Order, int, error) {
	where := "WHERE o.deleted_at IS NULL"
	args := []any{}

	if opts.Status != "" {
		where += " AND o.status = ?"
		args = append(args, opts.Status)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders o %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY o.created_at DESC LIMIT ? OFFSET ?`,
		orderColumns, orderJoins, where)

	pageArgs := append(args, opts.PerPage, opts.Offset())
	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.Number, &o.ClientID, &o.Address, &o.Status,
			&o.AppraiserID, &o.ReviewerID, &o.FeeCents,
			&o.SiteVisitAt, &o.ReviewDueAt, &o.ClientDueAt,
			&o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&o.ClientName, &o.AppraiserName, &o.ReviewerName,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// NextSequence increments the per-year counter and returns the new value.
// LAST_INSERT_ID makes the read-modify-write atomic on a single row.
func (r *orderRepository) NextSequence(ctx context.Context, year int) (int, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_counters (year, seq) VALUES (?, LAST_INSERT_ID(1))
		 ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`,
		year,
	)
	if err != nil {
		return 0, fmt.Errorf("incrementing order counter: %w", err)
	}

	var seq int
	if err := r.db.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("reading order counter: %w", err)
	}
	return seq, nil
}

// ScheduleBetween unions the three dated columns into one stream of rows.
// Each order can contribute up to three entries. The half-open range keeps
// window boundaries from double-counting.
func (r *orderRepository) ScheduleBetween(ctx context.Context, start, end time.Time) ([]ScheduleEntry, error) {
	query := `
	SELECT 'site_visit', o.id, o.number, o.address, o.site_visit_at, o.appraiser_id, a.display_name
	  FROM orders o LEFT JOIN users a ON a.id = o.appraiser_id
	 WHERE o.deleted_at IS NULL AND o.site_visit_at >= ? AND o.site_visit_at < ?
	UNION ALL
	SELECT 'review_due', o.id, o.number, o.address, o.review_due_at, o.reviewer_id, r.display_name
	  FROM orders o LEFT JOIN users r ON r.id = o.reviewer_id
	 WHERE o.deleted_at IS NULL AND o.review_due_at >= ? AND o.review_due_at < ?
	UNION ALL
	SELECT 'client_due', o.id, o.number, o.address, o.client_due_at, o.appraiser_id, a.display_name
	  FROM orders o LEFT JOIN users a ON a.id = o.appraiser_id
	 WHERE o.deleted_at IS NULL AND o.client_due_at >= ? AND o.client_due_at < ?`

	rows, err := r.db.QueryContext(ctx, query, start, end, start, end, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying order schedule: %w", err)
	}
	defer rows.Close()

	var entries []ScheduleEntry
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.Kind, &e.OrderID, &e.OrderNumber, &e.Address, &e.At, &e.AssigneeID, &e.AssigneeName); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
