package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// AuthHandler exposes registration, login and the current account.
type AuthHandler struct {
	service   *service.AuthService
	validator *validation.Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, v *validation.Validator) *AuthHandler {
	return &AuthHandler{service: authService, validator: v}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	res, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": authResponse(res)})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	res, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(res)})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, _ := auth.IdentityFromContext(c)
	user, err := h.service.Me(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User: userResponse(res.User),
		Auth: dto.TokenResponse{Token: res.Token, ExpiresAt: res.ExpiresAt},
	}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
