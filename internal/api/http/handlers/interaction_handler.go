package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// InteractionHandler serves comments and likes.
type InteractionHandler struct {
	service   *service.InteractionService
	validator *validation.Validator
}

// NewInteractionHandler constructs handler.
func NewInteractionHandler(s *service.InteractionService, v *validation.Validator) *InteractionHandler {
	return &InteractionHandler{service: s, validator: v}
}

func (h *InteractionHandler) target(c *fiber.Ctx) (service.Target, error) {
	var q dto.TargetQuery
	if err := parseQuery(c, h.validator, &q); err != nil {
		return service.Target{}, err
	}
	return service.Target{Type: q.TargetType, ID: q.TargetID}, nil
}

// Comments GET /api/comments?target_type=EVENT&target_id=...
func (h *InteractionHandler) Comments(c *fiber.Ctx) error {
	target, err := h.target(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c, h.validator)
	if err != nil {
		return err
	}
	viewer, _ := auth.IdentityFromContext(c)
	comments, info, err := h.service.ListComments(c.UserContext(), viewer, target, page)
	if err != nil {
		return err
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, commentResponse(&comments[i]))
	}
	return listResponse(c, out, info)
}

// AddComment POST /api/comments.
func (h *InteractionHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	comment, err := h.service.AddComment(c.UserContext(), actor,
		service.Target{Type: req.TargetType, ID: req.TargetID}, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// DeleteComment DELETE /api/comments/:id.
func (h *InteractionHandler) DeleteComment(c *fiber.Ctx) error {
	actor, _ := auth.IdentityFromContext(c)
	if err := h.service.DeleteComment(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike POST /api/likes.
func (h *InteractionHandler) ToggleLike(c *fiber.Ctx) error {
	var req dto.LikeRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	status, err := h.service.ToggleLike(c.UserContext(), actor,
		service.Target{Type: req.TargetType, ID: req.TargetID})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LikeResponse{Liked: status.Liked, Count: status.Count}})
}

// Likes GET /api/likes?target_type=...&target_id=...
func (h *InteractionHandler) Likes(c *fiber.Ctx) error {
	target, err := h.target(c)
	if err != nil {
		return err
	}
	viewer, _ := auth.IdentityFromContext(c)
	status, err := h.service.Likes(c.UserContext(), viewer, target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LikeResponse{Liked: status.Liked, Count: status.Count}})
}

func commentResponse(cm *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         cm.ID,
		TargetType: cm.TargetType,
		TargetID:   cm.TargetID,
		UserID:     cm.UserID,
		AuthorName: cm.AuthorName,
		Content:    cm.Content,
		CreatedAt:  cm.CreatedAt,
	}
}
