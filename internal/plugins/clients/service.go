package clients

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// ClientService handles business logic for the client directory. It also
// satisfies the orders plugin's ClientDirectory interface.
type ClientService interface {
	Create(ctx context.Context, input ClientInput) (*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, id string, input ClientInput) (*Client, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Client, int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// clientService implements ClientService.
type clientService struct {
	clients ClientRepository
}

// NewClientService creates a new client service.
func NewClientService(clients ClientRepository) ClientService {
	return &clientService{clients: clients}
}

// validate checks the shared constraints for create and update.
func validate(input ClientInput) (ClientInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, apperror.NewValidation("client name is required")
	}
	if len(input.Name) > 200 {
		return input, apperror.NewValidation("client name must be at most 200 characters")
	}

	input.Email = strings.TrimSpace(input.Email)
	if input.Email != "" && !strings.Contains(input.Email, "@") {
		return input, apperror.NewValidation("invalid email address")
	}

	input.Company = strings.TrimSpace(input.Company)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Notes = strings.TrimSpace(input.Notes)
	return input, nil
}

// Create validates input and inserts a new client.
func (s *clientService) Create(ctx context.Context, input ClientInput) (*Client, error) {
	input, err := validate(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := &Client{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Company:   input.Company,
		Email:     input.Email,
		Phone:     input.Phone,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating client: %w", err))
	}

	slog.Info("client created", slog.String("client_id", client.ID), slog.String("name", client.Name))
	return client, nil
}

// GetByID retrieves a client by ID.
func (s *clientService) GetByID(ctx context.Context, id string) (*Client, error) {
	return s.clients.FindByID(ctx, id)
}

// Update validates input and modifies an existing client.
func (s *clientService) Update(ctx context.Context, id string, input ClientInput) (*Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input, err = validate(input)
	if err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.Company = input.Company
	client.Email = input.Email
	client.Phone = input.Phone
	client.Notes = input.Notes
	client.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete soft-deletes a client. Existing orders keep their reference.
func (s *clientService) Delete(ctx context.Context, id string) error {
	if err := s.clients.SoftDelete(ctx, id); err != nil {
		return err
	}
	slog.Info("client deleted", slog.String("client_id", id))
	return nil
}

// List returns clients with pagination and optional search.
func (s *clientService) List(ctx context.Context, opts ListOptions) ([]Client, int, error) {
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = 25
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	opts.Query = strings.TrimSpace(opts.Query)
	return s.clients.List(ctx, opts)
}

// Exists reports whether a live client with the given ID exists.
func (s *clientService) Exists(ctx context.Context, id string) (bool, error) {
	return s.clients.Exists(ctx, id)
}
