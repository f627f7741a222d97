package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// PerformancesHandler serves past shows.
type PerformancesHandler struct {
	service   *service.PerformanceService
	validator *validation.Validator
}

// NewPerformancesHandler constructs handler.
func NewPerformancesHandler(s *service.PerformanceService, v *validation.Validator) *PerformancesHandler {
	return &PerformancesHandler{service: s, validator: v}
}

// List GET /api/performances.
func (h *PerformancesHandler) List(c *fiber.Ctx) error {
	page, err := pageRequest(c, h.validator)
	if err != nil {
		return err
	}
	items, info, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	out := make([]dto.PerformanceResponse, 0, len(items))
	for i := range items {
		out = append(out, performanceResponse(&items[i]))
	}
	return listResponse(c, out, info)
}

// Get GET /api/performances/:id.
func (h *PerformancesHandler) Get(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": performanceResponse(p)})
}

// Create POST /api/performances.
func (h *PerformancesHandler) Create(c *fiber.Ctx) error {
	var req dto.PerformanceRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), performanceInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": performanceResponse(p)})
}

// Update PUT /api/performances/:id.
func (h *PerformancesHandler) Update(c *fiber.Ctx) error {
	var req dto.PerformanceRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	p, err := h.service.Update(c.UserContext(), c.Params("id"), performanceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": performanceResponse(p)})
}

// Delete DELETE /api/performances/:id.
func (h *PerformancesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func performanceInput(req dto.PerformanceRequest) service.PerformanceInput {
	return service.PerformanceInput{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		PerformedAt: req.PerformedAt,
		VideoURL:    req.VideoURL,
		ImageURL:    req.ImageURL,
	}
}

func performanceResponse(p *domain.Performance) dto.PerformanceResponse {
	return dto.PerformanceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Venue:       p.Venue,
		PerformedAt: p.PerformedAt,
		VideoURL:    p.VideoURL,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
