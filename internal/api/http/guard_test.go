package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptransport "github.com/spec-kit/band-site/internal/api/http"
	"github.com/spec-kit/band-site/internal/ratelimit"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingStore struct{}

func (failingStore) Check(context.Context, string, time.Duration, int) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("connection refused")
}

func newGuardApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: httptransport.ErrorHandler(nil)})
}

func guardedApp(store ratelimit.Store, clock *testClock, max int) *fiber.App {
	app := newGuardApp()
	app.Use(httptransport.Guard(store, httptransport.GuardOptions{
		Name:   "test",
		Window: time.Minute,
		Max:    max,
		Now:    clock.Now,
	}, nil, nil))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func ping(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGuardAllowsThenRejects(t *testing.T) {
	clock := newTestClock()
	app := guardedApp(ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now)), clock, 5)
	client := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	wantReset := clock.Now().Add(time.Minute).Format("2006-01-02T15:04:05.000Z")

	for i := 0; i < 5; i++ {
		resp := ping(t, app, client)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "5", resp.Header.Get(httptransport.HeaderRateLimitLimit))
		assert.Equal(t, []string{"4", "3", "2", "1", "0"}[i], resp.Header.Get(httptransport.HeaderRateLimitRemaining))
		assert.Equal(t, wantReset, resp.Header.Get(httptransport.HeaderRateLimitReset))
	}

	resp := ping(t, app, client)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get(httptransport.HeaderRetryAfter))
	assert.Equal(t, "0", resp.Header.Get(httptransport.HeaderRateLimitRemaining))
	assert.Equal(t, apperrors.MsgRateLimited, decode(t, resp)["error"])
}

func TestGuardRetryAfterIsAtLeastOneSecond(t *testing.T) {
	clock := newTestClock()
	app := guardedApp(ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now)), clock, 1)

	require.Equal(t, http.StatusOK, ping(t, app, nil).StatusCode)
	clock.Advance(59*time.Second + 700*time.Millisecond)

	resp := ping(t, app, nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(httptransport.HeaderRetryAfter))

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, http.StatusOK, ping(t, app, nil).StatusCode)
}

func TestGuardKeysOnFirstForwardedHop(t *testing.T) {
	clock := newTestClock()
	app := guardedApp(ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now)), clock, 1)

	require.Equal(t, http.StatusOK, ping(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}).StatusCode)
	// same client behind a different proxy
	assert.Equal(t, http.StatusTooManyRequests,
		ping(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}).StatusCode)

	assert.Equal(t, http.StatusOK, ping(t, app, map[string]string{"X-Real-IP": "198.51.100.2"}).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, ping(t, app, map[string]string{"X-Real-IP": "198.51.100.2"}).StatusCode)

	// no identifying header at all shares the "unknown" bucket
	assert.Equal(t, http.StatusOK, ping(t, app, nil).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, ping(t, app, nil).StatusCode)
}

func TestGuardFailsOpenOnStoreError(t *testing.T) {
	app := guardedApp(failingStore{}, newTestClock(), 1)

	for i := 0; i < 3; i++ {
		resp := ping(t, app, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get(httptransport.HeaderRateLimitLimit))
	}
}

func TestNestedGuardsReportInnermostProfile(t *testing.T) {
	clock := newTestClock()
	store := ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now))
	app := newGuardApp()
	outer := httptransport.Guard(store, httptransport.GuardOptions{Name: "api", Window: time.Minute, Max: 100, Now: clock.Now}, nil, nil)
	inner := httptransport.Guard(store, httptransport.GuardOptions{Name: "auth", Window: 15 * time.Minute, Max: 2, Now: clock.Now}, nil, nil)
	app.Post("/login", outer, inner, func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	send := func() *http.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		return resp
	}

	resp := send()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(httptransport.HeaderRateLimitLimit))
	assert.Equal(t, "1", resp.Header.Get(httptransport.HeaderRateLimitRemaining))

	require.Equal(t, http.StatusOK, send().StatusCode)
	resp = send()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "900", resp.Header.Get(httptransport.HeaderRetryAfter))
	assert.Equal(t, "2", resp.Header.Get(httptransport.HeaderRateLimitLimit))
	assert.Equal(t, map[string]any{"error": apperrors.MsgRateLimited}, decode(t, resp))
}
