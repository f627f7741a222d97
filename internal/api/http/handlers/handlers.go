package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/api/dto"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/validation"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// MsgInvalidBody is returned when the payload cannot be decoded.
const MsgInvalidBody = "Corps de requête invalide"

// parseBody decodes the request body into dst and validates it.
func parseBody(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewBadRequest(MsgInvalidBody)
	}
	return v.Struct(dst)
}

// parseQuery decodes query parameters into dst and validates it.
func parseQuery(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return apperrors.NewBadRequest(MsgInvalidBody)
	}
	return v.Struct(dst)
}

func pageRequest(c *fiber.Ctx, v *validation.Validator) (service.PageRequest, error) {
	var q dto.PageQuery
	if err := parseQuery(c, v, &q); err != nil {
		return service.PageRequest{}, err
	}
	return service.PageRequest{Page: q.Page, PageSize: q.PageSize}, nil
}

func listResponse(c *fiber.Ctx, data any, info service.PageInfo) error {
	return c.JSON(fiber.Map{
		"data": data,
		"pagination": dto.Pagination{
			Page:     info.Page,
			PageSize: info.PageSize,
			Total:    info.Total,
		},
	})
}
