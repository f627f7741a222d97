package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// MembersHandler serves band member bios.
type MembersHandler struct {
	service   *service.MemberService
	validator *validation.Validator
}

// NewMembersHandler constructs handler.
func NewMembersHandler(s *service.MemberService, v *validation.Validator) *MembersHandler {
	return &MembersHandler{service: s, validator: v}
}

// List GET /api/members.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	members, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, memberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /api/members/:id.
func (h *MembersHandler) Get(c *fiber.Ctx) error {
	m, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(m)})
}

// Create POST /api/members.
func (h *MembersHandler) Create(c *fiber.Ctx) error {
	var req dto.MemberRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	m, err := h.service.Create(c.UserContext(), memberInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": memberResponse(m)})
}

// Update PUT /api/members/:id.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	var req dto.MemberRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	m, err := h.service.Update(c.UserContext(), actor, c.Params("id"), memberInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(m)})
}

// Delete DELETE /api/members/:id.
func (h *MembersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func memberInput(req dto.MemberRequest) service.MemberInput {
	return service.MemberInput{
		Name:         req.Name,
		Instrument:   req.Instrument,
		Bio:          req.Bio,
		PhotoURL:     req.PhotoURL,
		DisplayOrder: req.DisplayOrder,
		UserID:       req.UserID,
	}
}

func memberResponse(m *domain.Member) dto.MemberResponse {
	return dto.MemberResponse{
		ID:           m.ID,
		Name:         m.Name,
		Instrument:   m.Instrument,
		Bio:          m.Bio,
		PhotoURL:     m.PhotoURL,
		DisplayOrder: m.DisplayOrder,
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
