package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/plumbline-app/plumbline/internal/apperror"
)

// --- Mock repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User) error
	findByIDFn        func(ctx context.Context, id string) (*User, error)
	findByEmailFn     func(ctx context.Context, email string) (*User, error)
	emailExistsFn     func(ctx context.Context, email string) (bool, error)
	countFn           func(ctx context.Context) (int, error)
	listFn            func(ctx context.Context) ([]User, error)
	updateLastLoginFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

// newTestAuth spins up a miniredis-backed auth service.
func newTestAuth(t *testing.T, repo UserRepository) AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAuthService(repo, rdb, time.Hour)
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	var created *User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			created = user
			return nil
		},
	}
	svc := newTestAuth(t, repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       "Dana@Example.com",
		DisplayName: "Dana Reyes",
		Password:    "correct horse battery",
		Role:        RoleReviewer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != RoleAdmin {
		t.Errorf("first account must be admin, got %s", user.Role)
	}
	if user.Email != "dana@example.com" {
		t.Errorf("email should be lowercased, got %s", user.Email)
	}
	if created == nil || !strings.HasPrefix(created.PasswordHash, "$argon2id$") {
		t.Error("password must be stored as an argon2id hash")
	}
}

func TestRegister_SubsequentUsersKeepRequestedRole(t *testing.T) {
	repo := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) { return 3, nil },
	}
	svc := newTestAuth(t, repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       "rev@example.com",
		DisplayName: "Sam Oduya",
		Password:    "longenoughpassword",
		Role:        RoleReviewer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != RoleReviewer {
		t.Errorf("expected reviewer role, got %s", user.Role)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuth(t, &mockUserRepo{})

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{Email: "nope", DisplayName: "Dana", Password: "longenough"}},
		{"short password", RegisterInput{Email: "a@b.c", DisplayName: "Dana", Password: "short"}},
		{"short name", RegisterInput{Email: "a@b.c", DisplayName: "D", Password: "longenough"}},
		{"bogus role", RegisterInput{Email: "a@b.c", DisplayName: "Dana", Password: "longenough", Role: "wizard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.input); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}
	svc := newTestAuth(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "dana@example.com", DisplayName: "Dana", Password: "longenough",
	})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 409 {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginAndSessionRoundTrip(t *testing.T) {
	hash, err := hashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u1", Email: email, DisplayName: "Dana Reyes", Role: RoleAppraiser, PasswordHash: hash}, nil
		},
	}
	svc := newTestAuth(t, repo)

	token, user, err := svc.Login(context.Background(), LoginInput{
		Email: "dana@example.com", Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.ID != "u1" {
		t.Fatal("expected a token and the authenticated user")
	}

	session, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("validating session: %v", err)
	}
	if session.UserID != "u1" || session.Name != "Dana Reyes" || session.Role != RoleAppraiser {
		t.Errorf("session carries wrong identity: %+v", session)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("destroying session: %v", err)
	}
	if _, err := svc.ValidateSession(context.Background(), token); err == nil {
		t.Error("destroyed session must no longer validate")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := hashPassword("the-real-password")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u1", PasswordHash: hash}, nil
		},
	}
	svc := newTestAuth(t, repo)

	_, _, err := svc.Login(context.Background(), LoginInput{Email: "dana@example.com", Password: "wrong"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 401 {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := newTestAuth(t, &mockUserRepo{})

	_, _, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 401 {
		t.Fatalf("unknown email must look like a bad password, got %v", err)
	}
	if appErr.Message != "invalid email or password" {
		t.Errorf("message must not reveal account existence: %q", appErr.Message)
	}
}

func TestSessionExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hash, _ := hashPassword("hunter2hunter2")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u1", PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo, rdb, time.Minute)

	token, _, err := svc.Login(context.Background(), LoginInput{Email: "d@e.f", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := svc.ValidateSession(context.Background(), token); err == nil {
		t.Error("session must expire after its TTL")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if verifyPassword("anything", "not-a-phc-string") {
		t.Error("malformed hashes must never verify")
	}
}
