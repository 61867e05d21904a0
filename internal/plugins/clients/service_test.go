package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// mockClientRepo implements ClientRepository with overridable function fields.
type mockClientRepo struct {
	createFn     func(ctx context.Context, client *Client) error
	findByIDFn   func(ctx context.Context, id string) (*Client, error)
	updateFn     func(ctx context.Context, client *Client) error
	softDeleteFn func(ctx context.Context, id string) error
	existsFn     func(ctx context.Context, id string) (bool, error)
	listFn       func(ctx context.Context, opts ListOptions) ([]Client, int, error)
}

func (m *mockClientRepo) Create(ctx context.Context, client *Client) error {
	if m.createFn != nil {
		return m.createFn(ctx, client)
	}
	return nil
}

func (m *mockClientRepo) FindByID(ctx context.Context, id string) (*Client, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("client not found")
}

func (m *mockClientRepo) Update(ctx context.Context, client *Client) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, client)
	}
	return nil
}

func (m *mockClientRepo) SoftDelete(ctx context.Context, id string) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return nil
}

func (m *mockClientRepo) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return false, nil
}

func (m *mockClientRepo) List(ctx context.Context, opts ListOptions) ([]Client, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts)
	}
	return nil, 0, nil
}

func TestCreate_TrimsAndValidates(t *testing.T) {
	var created *Client
	repo := &mockClientRepo{createFn: func(ctx context.Context, client *Client) error {
		created = client
		return nil
	}}
	svc := NewClientService(repo)

	client, err := svc.Create(context.Background(), ClientInput{
		Name:    "  First National Bank  ",
		Company: " FNB ",
		Email:   "orders@fnb.example ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Name != "First National Bank" {
		t.Errorf("name not trimmed: %q", client.Name)
	}
	if created == nil || created.ID == "" {
		t.Error("expected a generated client ID")
	}
}

func TestCreate_RejectsBadInput(t *testing.T) {
	svc := NewClientService(&mockClientRepo{})

	tests := []struct {
		name  string
		input ClientInput
	}{
		{"empty name", ClientInput{}},
		{"whitespace name", ClientInput{Name: "   "}},
		{"malformed email", ClientInput{Name: "FNB", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
		})
	}
}

func TestUpdate_NotFoundPassesThrough(t *testing.T) {
	svc := NewClientService(&mockClientRepo{})

	_, err := svc.Update(context.Background(), "missing", ClientInput{Name: "FNB"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_ClampsPaginationAndTrimsQuery(t *testing.T) {
	var got ListOptions
	repo := &mockClientRepo{listFn: func(ctx context.Context, opts ListOptions) ([]Client, int, error) {
		got = opts
		return nil, 0, nil
	}}
	svc := NewClientService(repo)

	if _, _, err := svc.List(context.Background(), ListOptions{Page: 0, PerPage: 500, Query: " bank "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Page != 1 || got.PerPage != 25 {
		t.Errorf("expected clamped pagination 1/25, got %d/%d", got.Page, got.PerPage)
	}
	if got.Query != "bank" {
		t.Errorf("expected trimmed query, got %q", got.Query)
	}
}
