package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/band-site/internal/api/http"
	"github.com/spec-kit/band-site/internal/api/http/handlers"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/config"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/observability"
	"github.com/spec-kit/band-site/internal/ratelimit"
	"github.com/spec-kit/band-site/internal/repository/repotest"
	"github.com/spec-kit/band-site/internal/service"
	"github.com/spec-kit/band-site/internal/storage"
	"github.com/spec-kit/band-site/internal/validation"
)

type pinger struct{ err error }

func (p *pinger) Ping(context.Context) error { return p.err }

type harness struct {
	app      *fiber.App
	users    *repotest.Users
	tokens   *auth.TokenManager
	blobs    *storage.MemoryStore
	metrics  *observability.Metrics
	postgres *pinger
}

type harnessOptions struct {
	authMax int
}

func newHarness(t *testing.T, opts ...func(*harnessOptions)) *harness {
	t.Helper()
	o := harnessOptions{authMax: 100}
	for _, fn := range opts {
		fn(&o)
	}

	users := repotest.NewUsers()
	eventRepo := repotest.NewEvents()
	performanceRepo := repotest.NewPerformances()
	mediaRepo := repotest.NewMedia()
	blobs := storage.NewMemoryStore("/uploads")
	dispatcher := events.NewInMemoryDispatcher()
	policy := auth.DefaultPolicy()
	validator := validation.New()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager("test-secret", 60)
	limiter := ratelimit.NewMemoryStore()

	authService := service.NewAuthService(config.AuthConfig{BcryptCost: 4}, service.AuthDependencies{
		UserRepo:     users,
		TokenManager: tokens,
		Dispatcher:   dispatcher,
	})
	mediaService := service.NewMediaService(service.MediaDependencies{
		MediaRepo:      mediaRepo,
		Blobs:          blobs,
		Policy:         policy,
		Dispatcher:     dispatcher,
		MaxUploadBytes: 1 << 20,
	})
	interactions := service.NewInteractionService(service.InteractionDependencies{
		CommentRepo:     repotest.NewComments(users),
		LikeRepo:        repotest.NewLikes(),
		EventRepo:       eventRepo,
		PerformanceRepo: performanceRepo,
		MediaRepo:       mediaRepo,
		Policy:          policy,
		Dispatcher:      dispatcher,
	})
	postgres := &pinger{}

	routes := httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler("band-site", "test", handlers.Check{Name: "postgres", Pinger: postgres}),
		Auth:         handlers.NewAuthHandler(authService, validator),
		Users:        handlers.NewUsersHandler(service.NewUserService(users, dispatcher), validator),
		Events:       handlers.NewEventsHandler(service.NewEventService(eventRepo, policy), validator),
		Performances: handlers.NewPerformancesHandler(service.NewPerformanceService(performanceRepo), validator),
		Members:      handlers.NewMembersHandler(service.NewMemberService(repotest.NewMembers(), policy), validator),
		Media:        handlers.NewMediaHandler(mediaService, validator),
		Site: handlers.NewSiteHandler(
			service.NewSettingService(repotest.NewSettings()),
			service.NewSocialLinkService(repotest.NewSocialLinks()),
			validator,
		),
		Interactions: handlers.NewInteractionHandler(interactions, validator),

		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Policy:         policy,
		APIGuard: httptransport.Guard(limiter, httptransport.GuardOptions{
			Name: "api", Window: time.Minute, Max: 1000,
		}, nil, metrics),
		AuthGuard: httptransport.Guard(limiter, httptransport.GuardOptions{
			Name: "auth", Window: 15 * time.Minute, Max: o.authMax,
		}, nil, metrics),
	}

	app := httptransport.NewServer(httptransport.ServerOptions{
		Name:           "band-site",
		RequestTimeout: 5 * time.Second,
		Metrics:        metrics,
	}, routes)

	return &harness{app: app, users: users, tokens: tokens, blobs: blobs, metrics: metrics, postgres: postgres}
}

// signIn seeds an account with role and returns a bearer token for it.
func (h *harness) signIn(t *testing.T, role domain.Role, name string) (string, domain.User) {
	t.Helper()
	u := h.users.Seed(domain.User{Name: name, Email: name + "@example.com", Role: role})
	token, _, err := h.tokens.Issue(&u)
	require.NoError(t, err)
	return token, u
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return map[string]any{"raw": string(raw)}
		}
		require.NoError(t, err)
	}
	return out
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected object data, got %v", body)
	return data
}

func listOf(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	require.True(t, ok, "expected list data, got %v", body)
	return data
}

func detailFields(body map[string]any) []string {
	details, _ := body["details"].([]any)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		if m, ok := d.(map[string]any); ok {
			if f, ok := m["field"].(string); ok {
				fields = append(fields, f)
			}
		}
	}
	return fields
}
