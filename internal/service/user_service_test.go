package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/auth"
	"github.com/spec-kit/support-ticket-service/internal/config"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

func newUserService(users *fakeUserRepo) *UserService {
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}
	return NewUserService(users, auth.NewTokenIssuer(cfg), auth.NewPasswordHasher(cfg), zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "ada@example.com",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Ng",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role, "role defaults to customer")
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, loggedIn, err := svc.Login(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, loggedIn.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users)

	input := RegisterInput{Email: "dup@example.com", Password: "password1", FirstName: "A", LastName: "B"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, util.CodeConflict, domainErr.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, util.CodeUnauthorized, domainErr.Code)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "ada@example.com", Password: "correct-horse", FirstName: "Ada", LastName: "Ng",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, util.CodeUnauthorized, domainErr.Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email: "ada@example.com", Password: "correct-horse", FirstName: "Ada", LastName: "Ng",
	})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(context.Background(), user))

	_, _, err = svc.Login(context.Background(), "ada@example.com", "correct-horse")
	require.Error(t, err)
}

func TestEnsureSystemActor(t *testing.T) {
	users := newFakeUserRepo()

	actor, err := EnsureSystemActor(context.Background(), users, "system@support.local", zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, actor.UserID)

	created, err := users.GetByID(context.Background(), actor.UserID)
	require.NoError(t, err)
	assert.False(t, created.IsActive, "system actor must stay out of the rosters")

	// second call resolves the same account
	again, err := EnsureSystemActor(context.Background(), users, "system@support.local", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, again.UserID)
}
