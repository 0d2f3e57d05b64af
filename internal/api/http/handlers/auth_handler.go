package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-ticket-service/internal/api/dto"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/service"
	"github.com/spec-kit/support-ticket-service/pkg/util"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	users *service.UserService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.users.Register(c.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.UserRole(req.Role),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromUser(user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.Validation("invalid request body")
	}

	token, user, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, User: dto.FromUser(user)})
}
