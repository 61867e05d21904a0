package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// ClientDirectory is the slice of the client plugin the order service needs:
// verifying that a referenced client exists and is not deleted.
type ClientDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Recorder appends entries to the office activity feed. Satisfied by the
// activity service; failures there must not fail the order operation.
type Recorder interface {
	RecordOrderEvent(ctx context.Context, actorID, action, orderID, orderNumber, detail string)
}

// OrderService handles business logic for appraisal orders. It owns number
// allocation and status transition enforcement.
type OrderService interface {
	Create(ctx context.Context, actorID string, input CreateOrderInput) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	Update(ctx context.Context, actorID, orderID string, input UpdateOrderInput) (*Order, error)
	ChangeStatus(ctx context.Context, actorID, orderID string, next Status) (*Order, error)
	Delete(ctx context.Context, actorID, orderID string) error
	List(ctx context.Context, opts ListOptions) ([]Order, int, error)
}

// orderService implements OrderService.
type orderService struct {
	orders   OrderRepository
	clients  ClientDirectory
	recorder Recorder
	now      func() time.Time
}

// NewOrderService creates a new order service with the given dependencies.
func NewOrderService(orders OrderRepository, clients ClientDirectory, recorder Recorder) OrderService {
	return &orderService{
		orders:   orders,
		clients:  clients,
		recorder: recorder,
		now:      time.Now,
	}
}

// Create validates input, allocates the next order number, and inserts the
// order in status "new".
func (s *orderService) Create(ctx context.Context, actorID string, input CreateOrderInput) (*Order, error) {
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, apperror.NewValidation("property address is required")
	}
	if len(address) > 500 {
		return nil, apperror.NewValidation("property address must be at most 500 characters")
	}
	if input.FeeCents < 0 {
		return nil, apperror.NewValidation("fee cannot be negative")
	}

	clientID := strings.TrimSpace(input.ClientID)
	if clientID == "" {
		return nil, apperror.NewValidation("client is required")
	}
	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking client: %w", err))
	}
	if !exists {
		return nil, apperror.NewBadRequest("client not found")
	}

	now := s.now().UTC()
	number, err := s.allocateNumber(ctx, now)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("allocating order number: %w", err))
	}

	order := &Order{
		ID:          uuid.NewString(),
		Number:      number,
		ClientID:    clientID,
		Address:     address,
		Status:      StatusNew,
		AppraiserID: input.AppraiserID,
		ReviewerID:  input.ReviewerID,
		FeeCents:    input.FeeCents,
		SiteVisitAt: input.SiteVisitAt,
		ReviewDueAt: input.ReviewDueAt,
		ClientDueAt: input.ClientDueAt,
		Notes:       strings.TrimSpace(input.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating order: %w", err))
	}

	slog.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("number", order.Number),
		slog.String("client_id", clientID),
	)
	s.recorder.RecordOrderEvent(ctx, actorID, "created", order.ID, order.Number, address)

	return order, nil
}

// allocateNumber produces the next YYYY-NNNN order number for the year of now.
func (s *orderService) allocateNumber(ctx context.Context, now time.Time) (string, error) {
	seq, err := s.orders.NextSequence(ctx, now.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%04d", now.Year(), seq), nil
}

// GetByID retrieves an order by ID.
func (s *orderService) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.orders.FindByID(ctx, id)
}

// GetByNumber retrieves an order by its display number.
func (s *orderService) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return s.orders.FindByNumber(ctx, number)
}

// Update modifies the editable fields of an order. Status changes go through
// ChangeStatus so that transition rules apply.
func (s *orderService) Update(ctx context.Context, actorID, orderID string, input UpdateOrderInput) (*Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, apperror.NewValidation("property address is required")
	}
	if input.FeeCents < 0 {
		return nil, apperror.NewValidation("fee cannot be negative")
	}

	order.Address = address
	order.AppraiserID = input.AppraiserID
	order.ReviewerID = input.ReviewerID
	order.FeeCents = input.FeeCents
	order.SiteVisitAt = input.SiteVisitAt
	order.ReviewDueAt = input.ReviewDueAt
	order.ClientDueAt = input.ClientDueAt
	order.Notes = strings.TrimSpace(input.Notes)
	order.UpdatedAt = s.now().UTC()

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.recorder.RecordOrderEvent(ctx, actorID, "updated", order.ID, order.Number, "")
	return order, nil
}

// ChangeStatus applies a workflow transition, rejecting moves the status
// machine does not allow.
func (s *orderService) ChangeStatus(ctx context.Context, actorID, orderID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown status %q", next))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(next) {
		return nil, apperror.NewValidation(
			fmt.Sprintf("cannot move order from %s to %s", order.Status.Label(), next.Label()))
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	slog.Info("order status changed",
		slog.String("order_id", orderID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(next)),
	)
	s.recorder.RecordOrderEvent(ctx, actorID, "status_changed", order.ID, order.Number,
		fmt.Sprintf("%s -> %s", order.Status.Label(), next.Label()))

	order.Status = next
	order.UpdatedAt = s.now().UTC()
	return order, nil
}

// Delete soft-deletes an order. Deleted orders disappear from listings and
// from the schedule.
func (s *orderService) Delete(ctx context.Context, actorID, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.SoftDelete(ctx, orderID); err != nil {
		return err
	}

	slog.Info("order deleted", slog.String("order_id", orderID), slog.String("number", order.Number))
	s.recorder.RecordOrderEvent(ctx, actorID, "deleted", order.ID, order.Number, "")
	return nil
}

// List returns orders with pagination and an optional status filter.
func (s *orderService) List(ctx context.Context, opts ListOptions) ([]Order, int, error) {
	if opts.PerPage < 1 || opts.PerPage > 100 {
		opts.PerPage = 25
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, 0, apperror.NewBadRequest(fmt.Sprintf("unknown status %q", opts.Status))
	}
	return s.orders.List(ctx, opts)
}
