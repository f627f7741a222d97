package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
)

// SiteHandler serves settings and social links.
type SiteHandler struct {
	settings  *service.SettingService
	links     *service.SocialLinkService
	validator *validation.Validator
}

// NewSiteHandler constructs handler.
func NewSiteHandler(settings *service.SettingService, links *service.SocialLinkService, v *validation.Validator) *SiteHandler {
	return &SiteHandler{settings: settings, links: links, validator: v}
}

// Settings GET /api/settings returns every setting as a key/value object.
func (h *SiteHandler) Settings(c *fiber.Ctx) error {
	all, err := h.settings.All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": all})
}

// Setting GET /api/settings/:key.
func (h *SiteHandler) Setting(c *fiber.Ctx) error {
	s, err := h.settings.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingResponse(s)})
}

// PutSetting PUT /api/settings/:key.
func (h *SiteHandler) PutSetting(c *fiber.Ctx) error {
	var req dto.SettingRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	s, err := h.settings.Put(c.UserContext(), c.Params("key"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingResponse(s)})
}

// DeleteSetting DELETE /api/settings/:key.
func (h *SiteHandler) DeleteSetting(c *fiber.Ctx) error {
	if err := h.settings.Delete(c.UserContext(), c.Params("key")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SocialLinks GET /api/social-links.
func (h *SiteHandler) SocialLinks(c *fiber.Ctx) error {
	links, err := h.links.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.SocialLinkResponse, 0, len(links))
	for i := range links {
		out = append(out, socialLinkResponse(&links[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// CreateSocialLink POST /api/social-links.
func (h *SiteHandler) CreateSocialLink(c *fiber.Ctx) error {
	var req dto.SocialLinkRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	link, err := h.links.Create(c.UserContext(), socialLinkInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": socialLinkResponse(link)})
}

// UpdateSocialLink PUT /api/social-links/:id.
func (h *SiteHandler) UpdateSocialLink(c *fiber.Ctx) error {
	var req dto.SocialLinkRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	link, err := h.links.Update(c.UserContext(), c.Params("id"), socialLinkInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": socialLinkResponse(link)})
}

// DeleteSocialLink DELETE /api/social-links/:id.
func (h *SiteHandler) DeleteSocialLink(c *fiber.Ctx) error {
	if err := h.links.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func settingResponse(s *domain.SiteSetting) dto.SettingResponse {
	return dto.SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}

func socialLinkInput(req dto.SocialLinkRequest) service.SocialLinkInput {
	return service.SocialLinkInput{
		Name:         req.Name,
		URL:          req.URL,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
	}
}

func socialLinkResponse(l *domain.SocialLink) dto.SocialLinkResponse {
	return dto.SocialLinkResponse{
		ID:           l.ID,
		Name:         l.Name,
		URL:          l.URL,
		Icon:         l.Icon,
		DisplayOrder: l.DisplayOrder,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
