package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/config"
	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/security"
)

type stubAccountsRepo struct {
	data       map[string]*models.Account
	createErr  error
	lastActive map[uuid.UUID]time.Time
}

func newStubAccountsRepo() *stubAccountsRepo {
	return &stubAccountsRepo{
		data:       map[string]*models.Account{},
		lastActive: map[uuid.UUID]time.Time{},
	}
}

func (s *stubAccountsRepo) Create(ctx context.Context, account *models.Account) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.data[account.Email]; ok {
		return errDuplicate{}
	}
	s.data[account.Email] = account
	return nil
}

func (s *stubAccountsRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if account, ok := s.data[email]; ok {
		return account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAccountsRepo) UpdateLastActive(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastActive[id] = at
	return nil
}

type errDuplicate struct{}

func (errDuplicate) Error() string { return "duplicate key value violates unique constraint" }

func newTestService(t *testing.T, repo *stubAccountsRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:           repo,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sampleSignup() SignupRequest {
	return SignupRequest{
		Email:           "sorter@example.com",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
		Role:            "user",
	}
}

func TestSignupCreatesAccount(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(t, repo)

	view, err := svc.Signup(context.Background(), sampleSignup())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if view.Email != "sorter@example.com" || view.Role != "user" {
		t.Fatalf("unexpected view %+v", view)
	}

	stored := repo.data["sorter@example.com"]
	if stored == nil {
		t.Fatal("account not persisted")
	}
	if stored.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}
	ok, err := security.VerifyPassword("hunter2hunter2", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored digest does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := newTestService(t, newStubAccountsRepo())

	req := sampleSignup()
	req.Password = "short"
	req.ConfirmPassword = "short"

	_, err := svc.Signup(context.Background(), req)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignupRejectsMismatchedConfirmation(t *testing.T) {
	svc := newTestService(t, newStubAccountsRepo())

	req := sampleSignup()
	req.ConfirmPassword = "different-password"

	_, err := svc.Signup(context.Background(), req)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignupDuplicateEmailIsConflict(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Signup(context.Background(), sampleSignup()); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, err := svc.Signup(context.Background(), sampleSignup())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginSuccessUpdatesLastActive(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(t, repo)

	view, err := svc.Signup(context.Background(), sampleSignup())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "sorter@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Account.ID != view.ID {
		t.Fatalf("unexpected account %+v", result.Account)
	}
	if _, ok := repo.lastActive[view.ID]; !ok {
		t.Fatal("last_active_at not updated")
	}
	if !result.LastLogin.Equal(repo.lastActive[view.ID]) {
		t.Fatalf("last login mismatch: %v vs %v", result.LastLogin, repo.lastActive[view.ID])
	}
}

func TestLoginFailuresAreIndistinguishableAndDoNotTouchActivity(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(t, repo)

	view, err := svc.Signup(context.Background(), sampleSignup())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	delete(repo.lastActive, view.ID)

	_, wrongPassword := svc.Login(context.Background(), LoginRequest{
		Email:    "sorter@example.com",
		Password: "not-the-password",
	})
	_, unknownEmail := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "hunter2hunter2",
	})

	for _, err := range []error{wrongPassword, unknownEmail} {
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if appErr.Message() != "invalid email or password" {
			t.Fatalf("unexpected message %q", appErr.Message())
		}
	}

	if _, ok := repo.lastActive[view.ID]; ok {
		t.Fatal("failed login must not mutate last_active_at")
	}
}
