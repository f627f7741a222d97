package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// MediaHandler serves the gallery.
type MediaHandler struct {
	service   *service.MediaService
	validator *validation.Validator
}

// NewMediaHandler constructs handler.
func NewMediaHandler(s *service.MediaService, v *validation.Validator) *MediaHandler {
	return &MediaHandler{service: s, validator: v}
}

// List GET /api/media?kind=IMAGE.
func (h *MediaHandler) List(c *fiber.Ctx) error {
	var q dto.MediaListQuery
	if err := parseQuery(c, h.validator, &q); err != nil {
		return err
	}
	page, err := pageRequest(c, h.validator)
	if err != nil {
		return err
	}

	input := service.MediaListInput{Page: page}
	if q.Kind != "" {
		kind := domain.MediaKind(q.Kind)
		input.Kind = &kind
	}
	items, info, err := h.service.List(c.UserContext(), input)
	if err != nil {
		return err
	}
	out := make([]dto.MediaResponse, 0, len(items))
	for i := range items {
		out = append(out, mediaResponse(&items[i]))
	}
	return listResponse(c, out, info)
}

// Get GET /api/media/:id.
func (h *MediaHandler) Get(c *fiber.Ctx) error {
	m, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mediaResponse(m)})
}

// Create POST /api/media.
func (h *MediaHandler) Create(c *fiber.Ctx) error {
	var req dto.MediaRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	m, err := h.service.Create(c.UserContext(), actor, service.MediaInput{
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": mediaResponse(m)})
}

// Upload POST /api/media/upload (multipart: file, title, description).
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	var form dto.MediaUploadForm
	if err := parseBody(c, h.validator, &form); err != nil {
		return err
	}

	var data []byte
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return apperrors.NewBadRequest(MsgInvalidBody)
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			return apperrors.NewBadRequest(MsgInvalidBody)
		}
	}

	actor, _ := auth.IdentityFromContext(c)
	m, err := h.service.Upload(c.UserContext(), actor, service.UploadInput{
		Title:       form.Title,
		Description: form.Description,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": mediaResponse(m)})
}

// Update PUT /api/media/:id.
func (h *MediaHandler) Update(c *fiber.Ctx) error {
	var req dto.MediaUpdateRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	m, err := h.service.Update(c.UserContext(), actor, c.Params("id"), service.MediaUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mediaResponse(m)})
}

// Delete DELETE /api/media/:id.
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFromContext(c)
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mediaResponse(m *domain.Media) dto.MediaResponse {
	return dto.MediaResponse{
		ID:          m.ID,
		Kind:        m.Kind,
		Title:       m.Title,
		Description: m.Description,
		URL:         m.URL,
		UploadedBy:  m.UploadedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
