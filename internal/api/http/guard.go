package http

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/band-site/internal/observability"
	"github.com/spec-kit/band-site/internal/ratelimit"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Rate limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// resetLayout is ISO-8601 in UTC with millisecond precision.
const resetLayout = "2006-01-02T15:04:05.000Z"

// GuardOptions configures one named rate limit profile.
type GuardOptions struct {
	Name   string
	Window time.Duration
	Max    int
	Now    func() time.Time
}

// Guard rejects callers that exceeded the profile budget with a RATE_LIMITED
// error, rendered as 429 by the error middleware. Allowed
// requests run the rest of the chain and get the quota headers on the way
// out. When guards are nested the innermost one's headers win. A store
// failure lets the request through.
func Guard(store ratelimit.Store, opts GuardOptions, logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *fiber.Ctx) error {
		key := opts.Name + ":" + clientKey(c)
		res, err := store.Check(c.UserContext(), key, opts.Window, opts.Max)
		if err != nil {
			logger.Warn("rate limit store unavailable",
				zap.String("profile", opts.Name),
				zap.Error(err),
			)
			return c.Next()
		}
		metrics.RecordRateLimit(opts.Name, res.Allowed)

		if !res.Allowed {
			retry := int(math.Ceil(res.RetryAfter(now()).Seconds()))
			if retry < 1 {
				retry = 1
			}
			setRateLimitHeaders(c, res)
			c.Set(HeaderRetryAfter, strconv.Itoa(retry))
			return apperrors.NewRateLimited()
		}

		err = c.Next()
		// an inner guard already reported its own profile
		if len(c.Response().Header.Peek(HeaderRateLimitLimit)) == 0 {
			setRateLimitHeaders(c, res)
		}
		return err
	}
}

func setRateLimitHeaders(c *fiber.Ctx, res ratelimit.Result) {
	c.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
	c.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
	c.Set(HeaderRateLimitReset, res.ResetTime.UTC().Format(resetLayout))
}

// clientKey identifies the caller: first X-Forwarded-For hop, then
// X-Real-IP, then "unknown".
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return "unknown"
}
