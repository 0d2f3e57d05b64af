package dto

import (
	"strings"

	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

// Validate checks the required registration fields.
func (r *RegisterRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return util.Validation("a valid email is required")
	}
	if len(r.Password) < 8 {
		return util.Validation("password must be at least 8 characters")
	}
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return util.Validation("first and last name are required")
	}
	switch domain.UserRole(r.Role) {
	case "", domain.RoleCustomer, domain.RoleAgent, domain.RoleAdmin:
		return nil
	default:
		return util.Validation("unknown role")
	}
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the API shape of an account.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// FromUser maps a domain user onto the response shape.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}

// AuthResponse carries an issued token with its account.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
