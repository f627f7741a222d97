package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-site/internal/domain"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens and stores the caller identity.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Require enforces authentication for protected routes.
func (m *AuthMiddleware) Require(c *fiber.Ctx) error {
	raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized(apperrors.MsgUnauthenticated)
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		return apperrors.NewUnauthorized(apperrors.MsgInvalidToken)
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// Optional attaches the identity when a valid token is present and never rejects.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		if claims, err := m.tokens.Verify(raw); err == nil {
			c.Locals(identityKey, claims.Identity())
		}
	}
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	id, ok := val.(*domain.Identity)
	return id, ok && id != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
