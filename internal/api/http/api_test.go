package http_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/service"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

func eventPayload(title string, published bool) map[string]any {
	return map[string]any{
		"title":     title,
		"venue":     "La Cigale",
		"city":      "Paris",
		"starts_at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"published": published,
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	h := newHarness(t)
	creds := map[string]any{"name": "Alice", "email": "Alice@Example.com", "password": "motdepasse"}

	resp, body := h.do(t, http.MethodPost, "/api/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	data := dataOf(t, body)
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "USER", user["role"])
	assert.NotContains(t, user, "password_hash")
	assert.NotEmpty(t, data["auth"].(map[string]any)["token"])

	resp, body = h.do(t, http.MethodPost, "/api/auth/register", creds, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.MsgEmailTaken, body["error"])

	resp, body = h.do(t, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "alice@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, service.MsgInvalidCredentials, body["error"])

	resp, body = h.do(t, http.MethodPost, "/api/auth/login",
		map[string]any{"email": "alice@example.com", "password": "motdepasse"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := dataOf(t, body)["auth"].(map[string]any)["token"].(string)

	resp, body = h.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", dataOf(t, body)["name"])

	resp, body = h.do(t, http.MethodGet, "/api/auth/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperrors.MsgInvalidToken, body["error"])
}

func TestValidationErrorEnvelope(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodPost, "/api/auth/register",
		map[string]any{"name": "A", "email": "not-an-email", "password": "short"}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperrors.MsgValidation, body["error"])
	assert.ElementsMatch(t, []string{"name", "email", "password"}, detailFields(body))

	resp, body = h.do(t, http.MethodGet, "/api/events?page_size=500", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"page_size"}, detailFields(body))
}

func TestAuthProfileLimitsLogin(t *testing.T) {
	h := newHarness(t, func(o *harnessOptions) { o.authMax = 5 })
	attempt := map[string]any{"email": "nobody@example.com", "password": "whatever1"}

	for i := 0; i < 5; i++ {
		resp, _ := h.do(t, http.MethodPost, "/api/auth/login", attempt, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, body := h.do(t, http.MethodPost, "/api/auth/login", attempt, "")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": apperrors.MsgRateLimited}, body)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))

	// rejections go through the shared error path and are counted
	_, scrape := h.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, scrape["raw"].(string), `code="RATE_LIMITED"`)

	// other routes only count against the api profile
	resp, _ = h.do(t, http.MethodGet, "/api/events", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1000", resp.Header.Get("X-RateLimit-Limit"))
}

func TestEventsPermissionsAndDrafts(t *testing.T) {
	h := newHarness(t)
	adminToken, _ := h.signIn(t, domain.RoleAdmin, "admin")
	fanToken, _ := h.signIn(t, domain.RoleUser, "fan")

	resp, body := h.do(t, http.MethodPost, "/api/events", eventPayload("Release party", true), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperrors.MsgUnauthenticated, body["error"])

	resp, body = h.do(t, http.MethodPost, "/api/events", eventPayload("Release party", true), fanToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apperrors.MsgForbidden, body["error"])

	resp, body = h.do(t, http.MethodPost, "/api/events", eventPayload("Release party", true), adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	publicID := dataOf(t, body)["id"].(string)

	resp, body = h.do(t, http.MethodPost, "/api/events", eventPayload("Secret show", false), adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	draftID := dataOf(t, body)["id"].(string)

	resp, body = h.do(t, http.MethodGet, "/api/events?upcoming=true", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, body), 1)
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])

	resp, body = h.do(t, http.MethodGet, "/api/events", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, body), 2)

	resp, _ = h.do(t, http.MethodGet, "/api/events/"+draftID, nil, fanToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/api/events/"+publicID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Release party", dataOf(t, body)["title"])

	resp, _ = h.do(t, http.MethodDelete, "/api/events/"+publicID, nil, adminToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/api/events/"+publicID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.MsgEventNotFound, body["error"])
}

func TestMemberOwnerCanEditOwnProfile(t *testing.T) {
	h := newHarness(t)
	adminToken, _ := h.signIn(t, domain.RoleAdmin, "admin")
	ownerToken, owner := h.signIn(t, domain.RoleArtist, "guitarist")
	otherToken, _ := h.signIn(t, domain.RoleArtist, "drummer")

	resp, body := h.do(t, http.MethodPost, "/api/members",
		map[string]any{"name": "Jo", "instrument": "Guitare", "display_order": 2, "user_id": owner.ID}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	id := dataOf(t, body)["id"].(string)

	update := map[string]any{"name": "Jo", "instrument": "Guitare", "bio": "Fan de <b>blues</b>", "display_order": 0}
	resp, body = h.do(t, http.MethodPut, "/api/members/"+id, update, ownerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	data := dataOf(t, body)
	assert.Equal(t, float64(2), data["display_order"], "artists cannot reorder members")

	resp, _ = h.do(t, http.MethodPut, "/api/members/"+id, update, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/api/members", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, body), 1)
}

func TestCommentsAndLikes(t *testing.T) {
	h := newHarness(t)
	adminToken, _ := h.signIn(t, domain.RoleAdmin, "admin")
	fanToken, fan := h.signIn(t, domain.RoleUser, "fan")

	_, body := h.do(t, http.MethodPost, "/api/events", eventPayload("Festival", true), adminToken)
	eventID := dataOf(t, body)["id"].(string)
	target := map[string]any{"target_type": "EVENT", "target_id": eventID}

	resp, body := h.do(t, http.MethodPost, "/api/comments",
		map[string]any{"target_type": "EVENT", "target_id": eventID, "content": "Génial <script>alert(1)</script>!"}, fanToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	comment := dataOf(t, body)
	assert.Equal(t, "Génial !", comment["content"])
	assert.Equal(t, "fan", comment["author_name"])
	assert.Equal(t, fan.ID, comment["user_id"])

	query := fmt.Sprintf("?target_type=EVENT&target_id=%s", eventID)
	resp, body = h.do(t, http.MethodGet, "/api/comments"+query, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, body), 1)

	resp, body = h.do(t, http.MethodGet, "/api/comments?target_type=BAND&target_id="+eventID, nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"target_type"}, detailFields(body))

	resp, body = h.do(t, http.MethodPost, "/api/likes", target, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, map[string]any{"liked": true, "count": float64(1)}, body["data"])

	resp, body = h.do(t, http.MethodGet, "/api/likes"+query, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"liked": false, "count": float64(1)}, body["data"])

	resp, body = h.do(t, http.MethodGet, "/api/likes"+query, nil, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, dataOf(t, body)["liked"])

	resp, body = h.do(t, http.MethodPost, "/api/likes", target, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"liked": false, "count": float64(0)}, body["data"])

	resp, _ = h.do(t, http.MethodPost, "/api/likes", target, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	missing := map[string]any{"target_type": "MEDIA", "target_id": "7b0c1a4e-3f7d-4e64-9b3e-1f1a3c5d7e90", "content": "?"}
	resp, body = h.do(t, http.MethodPost, "/api/comments", missing, fanToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.MsgTargetNotFound, body["error"])
}

func uploadRequest(t *testing.T, filename string, content []byte, title, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("description", "Photo de scène"))
	if content != nil {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestMediaUpload(t *testing.T) {
	h := newHarness(t)
	artistToken, artist := h.signIn(t, domain.RoleArtist, "bassist")
	fanToken, _ := h.signIn(t, domain.RoleUser, "fan")
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	resp, err := h.app.Test(uploadRequest(t, "stage.png", png, "Sur scène", artistToken), -1)
	require.NoError(t, err)
	body := decode(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	data := dataOf(t, body)
	assert.Equal(t, "IMAGE", data["kind"])
	assert.Equal(t, artist.ID, data["uploaded_by"])
	assert.True(t, strings.HasPrefix(data["url"].(string), "/uploads/media/"), data["url"])
	assert.True(t, strings.HasSuffix(data["url"].(string), ".png"), data["url"])
	assert.Equal(t, 1, h.blobs.Len())

	resp, err = h.app.Test(uploadRequest(t, "notes.txt", []byte("just some text"), "Notes", artistToken), -1)
	require.NoError(t, err)
	body = decode(t, resp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"file"}, detailFields(body))

	resp, err = h.app.Test(uploadRequest(t, "", nil, "Rien", artistToken), -1)
	require.NoError(t, err)
	body = decode(t, resp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"file"}, detailFields(body))

	resp, err = h.app.Test(uploadRequest(t, "stage.png", png, "Sur scène", fanToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, listBody := h.do(t, http.MethodGet, "/api/media?kind=IMAGE", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := listOf(t, listBody)
	require.Len(t, items, 1)

	id := items[0].(map[string]any)["id"].(string)
	resp, _ = h.do(t, http.MethodDelete, "/api/media/"+id, nil, artistToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, h.blobs.Len())
}

func TestSettingsAndSocialLinks(t *testing.T) {
	h := newHarness(t)
	adminToken, _ := h.signIn(t, domain.RoleAdmin, "admin")
	artistToken, _ := h.signIn(t, domain.RoleArtist, "singer")

	resp, _ := h.do(t, http.MethodPut, "/api/settings/hero_title", map[string]any{"value": "Nouvel album"}, artistToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := h.do(t, http.MethodPut, "/api/settings/Hero_Title", map[string]any{"value": "Nouvel album"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "hero_title", dataOf(t, body)["key"])

	resp, body = h.do(t, http.MethodGet, "/api/settings", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"hero_title": "Nouvel album"}, body["data"])

	resp, _ = h.do(t, http.MethodDelete, "/api/settings/hero_title", nil, adminToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, body = h.do(t, http.MethodGet, "/api/settings/hero_title", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.MsgSettingNotFound, body["error"])

	link := map[string]any{"name": "Bandcamp", "url": "https://band.bandcamp.com", "display_order": 1}
	resp, body = h.do(t, http.MethodPost, "/api/social-links", link, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = h.do(t, http.MethodPost, "/api/social-links", link, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.MsgSocialLinkExists, body["error"])

	resp, body = h.do(t, http.MethodGet, "/api/social-links", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, body), 1)
}

func TestAdminUsers(t *testing.T) {
	h := newHarness(t)
	adminToken, admin := h.signIn(t, domain.RoleAdmin, "admin")
	fanToken, fan := h.signIn(t, domain.RoleUser, "fan")

	resp, _ := h.do(t, http.MethodGet, "/api/admin/users", nil, fanToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := h.do(t, http.MethodGet, "/api/admin/users?page=1&page_size=1", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, body), 1)
	assert.Equal(t, map[string]any{"page": float64(1), "page_size": float64(1), "total": float64(2)}, body["pagination"])

	resp, body = h.do(t, http.MethodPut, "/api/admin/users/"+fan.ID+"/role", map[string]any{"role": "ARTIST"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "ARTIST", dataOf(t, body)["role"])

	resp, body = h.do(t, http.MethodPut, "/api/admin/users/"+admin.ID+"/role", map[string]any{"role": "USER"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.MsgOwnRoleChange, body["error"])

	resp, body = h.do(t, http.MethodPut, "/api/admin/users/"+fan.ID+"/role", map[string]any{"role": "ROOT"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"role"}, detailFields(body))
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])

	h.postgres.err = fmt.Errorf("connection refused")
	resp, body = h.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "connection refused", body["details"].(map[string]any)["postgres"])

	resp, body = h.do(t, http.MethodGet, "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route introuvable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/api/events", nil, "")
	h.do(t, http.MethodGet, "/api/events/not-a-uuid", nil, "")

	resp, body := h.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := body["raw"].(string)
	assert.Contains(t, raw, `band_site_http_requests_total{`)
	assert.Contains(t, raw, `band_site_http_errors_total{code="NOT_FOUND"`)
	assert.Contains(t, raw, `band_site_rate_limit_decisions_total{decision="allowed",profile="api"}`)
}

func TestMalformedBody(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": "Corps de requête invalide"}, decode(t, resp))
}
