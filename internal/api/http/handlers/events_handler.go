package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// EventsHandler serves concert dates.
type EventsHandler struct {
	service   *service.EventService
	validator *validation.Validator
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService, v *validation.Validator) *EventsHandler {
	return &EventsHandler{service: eventService, validator: v}
}

// List GET /api/events?upcoming=true.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	page, err := pageRequest(c, h.validator)
	if err != nil {
		return err
	}
	viewer, _ := auth.IdentityFromContext(c)
	events, info, err := h.service.List(c.UserContext(), viewer, service.EventListInput{
		Upcoming: c.QueryBool("upcoming"),
		Page:     page,
	})
	if err != nil {
		return err
	}
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, eventResponse(&events[i]))
	}
	return listResponse(c, items, info)
}

// Get GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	viewer, _ := auth.IdentityFromContext(c)
	ev, err := h.service.Get(c.UserContext(), viewer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(ev)})
}

// Create POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	ev, err := h.service.Create(c.UserContext(), eventInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": eventResponse(ev)})
}

// Update PUT /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	ev, err := h.service.Update(c.UserContext(), c.Params("id"), eventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(ev)})
}

// Delete DELETE /api/events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func eventInput(req dto.EventRequest) service.EventInput {
	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		City:        req.City,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		TicketURL:   req.TicketURL,
		ImageURL:    req.ImageURL,
		Published:   req.Published,
	}
}

func eventResponse(ev *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Venue:       ev.Venue,
		City:        ev.City,
		StartsAt:    ev.StartsAt,
		EndsAt:      ev.EndsAt,
		TicketURL:   ev.TicketURL,
		ImageURL:    ev.ImageURL,
		Published:   ev.Published,
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
}
