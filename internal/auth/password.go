package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-ticket-service/internal/config"
)

// PasswordHasher wraps bcrypt with the configured cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher constructs the hasher.
func NewPasswordHasher(cfg config.AuthConfig) *PasswordHasher {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a bcrypt hash from the plaintext password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether the plaintext matches the stored hash.
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
