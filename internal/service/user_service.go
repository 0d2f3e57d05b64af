package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/auth"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/repository"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.UserRole
}

// UserService handles registration and authentication.
type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	hasher *auth.PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, tokens *auth.TokenIssuer, hasher *auth.PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, util.Conflict("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.ToDomainError(err, "could not check existing account")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, util.WrapDomainError(util.CodeInternal, "could not hash password", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, util.ToDomainError(err, "could not create account")
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, util.Unauthorized("invalid credentials")
		}
		return "", nil, util.ToDomainError(err, "could not load account")
	}
	if !user.IsActive {
		return "", nil, util.Unauthorized("account is disabled")
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", nil, util.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return "", nil, util.WrapDomainError(util.CodeInternal, "could not issue token", err)
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("could not record login time", zap.String("user_id", user.ID), zap.Error(err))
	}

	return token, user, nil
}

// EnsureSystemActor looks up or creates the configured system account used
// to attribute pipeline-originated changes. It is created inactive so it
// never appears in the agent or admin rosters.
func EnsureSystemActor(ctx context.Context, users repository.UserRepository, email string, logger *zap.Logger) (SystemActor, error) {
	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return SystemActor{UserID: user.ID, Email: user.Email}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return SystemActor{}, err
	}

	system := &domain.User{
		Email:        email,
		PasswordHash: "!",
		FirstName:    "System",
		LastName:     "Pipeline",
		Role:         domain.RoleAgent,
		IsActive:     false,
	}
	if err := users.Create(ctx, system); err != nil {
		return SystemActor{}, err
	}
	logger.Info("created system actor account", zap.String("email", email))
	return SystemActor{UserID: system.ID, Email: system.Email}, nil
}
