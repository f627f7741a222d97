package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// UsersHandler manages accounts from the admin area.
type UsersHandler struct {
	service   *service.UserService
	validator *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, v *validation.Validator) *UsersHandler {
	return &UsersHandler{service: userService, validator: v}
}

// List GET /api/admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := pageRequest(c, h.validator)
	if err != nil {
		return err
	}
	users, info, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return listResponse(c, items, info)
}

// UpdateRole PUT /api/admin/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	user, err := h.service.UpdateRole(c.UserContext(), actor, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
