package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-site/internal/domain"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

func newTestApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var de *apperrors.DomainError
			if errors.As(err, &de) {
				return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	mw := NewAuthMiddleware(tm)
	policy := DefaultPolicy()

	app.Get("/me", mw.Require, func(c *fiber.Ctx) error {
		id, _ := IdentityFromContext(c)
		return c.JSON(fiber.Map{"id": id.ID, "role": id.Role})
	})
	app.Post("/events", mw.Require, RequirePermission(policy, Can(ActionCreate, ResourceEvents)), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})
	app.Get("/maybe", mw.Optional, func(c *fiber.Ctx) error {
		_, ok := IdentityFromContext(c)
		return c.JSON(fiber.Map{"authenticated": ok})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRequireMissingHeader(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", 60))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperrors.MsgUnauthenticated, decodeBody(t, resp)["error"])
}

func TestRequireInvalidToken(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", 60))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperrors.MsgInvalidToken, decodeBody(t, resp)["error"])
}

func TestRequireExpiredToken(t *testing.T) {
	now := time.Now().Add(-2 * time.Hour)
	tm := NewTokenManager("secret", 60).WithClock(func() time.Time { return now })
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)
	tm.WithClock(time.Now)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newTestApp(tm).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperrors.MsgInvalidToken, decodeBody(t, resp)["error"])
}

func TestRequireValidToken(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := newTestApp(tm).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", decodeBody(t, resp)["id"])
}

func TestRequirePermissionForbidden(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	app := newTestApp(tm)

	userToken, _, err := tm.Issue(testUser())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apperrors.MsgForbidden, decodeBody(t, resp)["error"])

	adminToken, _, err := tm.Issue(&domain.User{ID: "admin-1", Email: "a@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestOptionalNeverRejects(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	app := newTestApp(tm)

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["authenticated"])

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, true, decodeBody(t, resp)["authenticated"])
}
