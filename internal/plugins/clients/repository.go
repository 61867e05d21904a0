package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// ClientRepository defines the data access contract for client operations.
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	SoftDelete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)

	// List returns clients ordered by name, optionally filtered by a
	// case-insensitive name or company match.
	List(ctx context.Context, opts ListOptions) ([]Client, int, error)
}

// clientRepository implements ClientRepository with MariaDB queries.
type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client row.
func (r *clientRepository) Create(ctx context.Context, client *Client) error {
	query := `INSERT INTO clients (id, name, company, email, phone, notes, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.Name, client.Company, client.Email,
		client.Phone, client.Notes, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

// FindByID retrieves a client by ID, excluding soft-deleted rows.
func (r *clientRepository) FindByID(ctx context.Context, id string) (*Client, error) {
	query := `SELECT id, name, company, email, phone, notes, created_at, updated_at
	          FROM clients WHERE id = ? AND deleted_at IS NULL`

	c := &Client{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Company, &c.Email, &c.Phone, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("client not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying client: %w", err)
	}
	return c, nil
}

// Update modifies an existing client.
func (r *clientRepository) Update(ctx context.Context, client *Client) error {
	query := `UPDATE clients SET name = ?, company = ?, email = ?, phone = ?,
	          notes = ?, updated_at = ?
	          WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		client.Name, client.Company, client.Email, client.Phone,
		client.Notes, client.UpdatedAt, client.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperror.NewNotFound("client not found")
	}
	return nil
}

// SoftDelete marks a client as deleted. Orders referencing the client keep
// their foreign key.
func (r *clientRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperror.NewNotFound("client not found")
	}
	return nil
}

// Exists reports whether a live client with the given ID exists.
func (r *clientRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE id = ? AND deleted_at IS NULL)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking client existence: %w", err)
	}
	return exists, nil
}

// List returns clients with pagination and optional name/company search.
func (r *clientRepository) List(ctx context.Context, opts ListOptions) ([]Client, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if opts.Query != "" {
		where += " AND (name LIKE ? OR company LIKE ?)"
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clients %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting clients: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, name, company, email, phone, notes, created_at, updated_at
	          FROM clients %s ORDER BY name LIMIT ? OFFSET ?`, where)

	pageArgs := append(args, opts.PerPage, opts.Offset())
	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Company, &c.Email, &c.Phone, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}
