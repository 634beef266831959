package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecosortapp/ecosort-backend/pkg/config"
	"github.com/ecosortapp/ecosort-backend/pkg/db"
	"github.com/ecosortapp/ecosort-backend/pkg/db/models"
	pkgerrors "github.com/ecosortapp/ecosort-backend/pkg/errors"
	"github.com/ecosortapp/ecosort-backend/pkg/security"
)

const minPasswordLength = 8

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role" validate:"required"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountView is the public projection of an account row.
type AccountView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	LastActiveAt time.Time `json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginResult carries the account and the refreshed activity timestamp.
type LoginResult struct {
	Account   AccountView
	LastLogin time.Time
}

// Service exposes the account operations used by the controllers.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AccountView, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type accountsRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateLastActive(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ServiceParams packages the dependencies for the accounts service.
type ServiceParams struct {
	Repo           accountsRepository
	PasswordConfig config.PasswordConfig
	Now            func() time.Time
}

type service struct {
	repo        accountsRepository
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds the accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "accounts repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        params.Repo,
		passwordCfg: params.PasswordConfig,
		now:         now,
	}, nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*AccountView, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	account := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		LastActiveAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}

	view := viewOf(account)
	return &view, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up account")
	}

	ok, err := security.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	lastLogin := s.now().UTC()
	if err := s.repo.UpdateLastActive(ctx, account.ID, lastLogin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login time")
	}
	account.LastActiveAt = lastLogin

	return &LoginResult{
		Account:   viewOf(account),
		LastLogin: lastLogin,
	}, nil
}

// invalidCredentials keeps unknown-email and wrong-password failures
// indistinguishable to the caller.
func invalidCredentials() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

func viewOf(account *models.Account) AccountView {
	return AccountView{
		ID:           account.ID,
		Email:        account.Email,
		Role:         account.Role,
		LastActiveAt: account.LastActiveAt,
		CreatedAt:    account.CreatedAt,
	}
}
