package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/band-site/internal/api/http/handlers"
	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Users        *handlers.UsersHandler
	Events       *handlers.EventsHandler
	Performances *handlers.PerformancesHandler
	Members      *handlers.MembersHandler
	Media        *handlers.MediaHandler
	Site         *handlers.SiteHandler
	Interactions *handlers.InteractionHandler

	AuthMiddleware *auth.AuthMiddleware
	Policy         auth.Policy
	Metrics        *observability.Metrics

	// APIGuard wraps every /api route. AuthGuard is added on register and login.
	APIGuard  fiber.Handler
	AuthGuard fiber.Handler

	// UploadDir is served under UploadsPrefix when the prefix is a path.
	UploadDir     string
	UploadsPrefix string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	// Uploads are only served locally when their public URL is a path.
	if cfg.UploadDir != "" && strings.HasPrefix(cfg.UploadsPrefix, "/") {
		app.Static(cfg.UploadsPrefix, cfg.UploadDir)
	}

	requireAuth := cfg.AuthMiddleware.Require
	optionalAuth := cfg.AuthMiddleware.Optional
	can := func(action auth.Action, resource auth.Resource) fiber.Handler {
		return auth.RequirePermission(cfg.Policy, auth.Can(action, resource))
	}

	api := app.Group("/api", passthrough(cfg.APIGuard))

	authGroup := api.Group("/auth")
	authGroup.Post("/register", passthrough(cfg.AuthGuard), cfg.Auth.Register)
	authGroup.Post("/login", passthrough(cfg.AuthGuard), cfg.Auth.Login)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)

	events := api.Group("/events")
	events.Get("/", optionalAuth, cfg.Events.List)
	events.Get("/:id", optionalAuth, cfg.Events.Get)
	events.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourceEvents), cfg.Events.Create)
	events.Put("/:id", requireAuth, can(auth.ActionUpdate, auth.ResourceEvents), cfg.Events.Update)
	events.Delete("/:id", requireAuth, can(auth.ActionDelete, auth.ResourceEvents), cfg.Events.Delete)

	performances := api.Group("/performances")
	performances.Get("/", cfg.Performances.List)
	performances.Get("/:id", cfg.Performances.Get)
	performances.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourcePerformances), cfg.Performances.Create)
	performances.Put("/:id", requireAuth, can(auth.ActionUpdate, auth.ResourcePerformances), cfg.Performances.Update)
	performances.Delete("/:id", requireAuth, can(auth.ActionDelete, auth.ResourcePerformances), cfg.Performances.Delete)

	members := api.Group("/members")
	members.Get("/", cfg.Members.List)
	members.Get("/:id", cfg.Members.Get)
	members.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourceMembers), cfg.Members.Create)
	members.Put("/:id", requireAuth, can(auth.ActionUpdate, auth.ResourceMembers), cfg.Members.Update)
	members.Delete("/:id", requireAuth, can(auth.ActionDelete, auth.ResourceMembers), cfg.Members.Delete)

	media := api.Group("/media")
	media.Get("/", cfg.Media.List)
	media.Post("/upload", requireAuth, can(auth.ActionCreate, auth.ResourceMedia), cfg.Media.Upload)
	media.Get("/:id", cfg.Media.Get)
	media.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourceMedia), cfg.Media.Create)
	media.Put("/:id", requireAuth, can(auth.ActionUpdate, auth.ResourceMedia), cfg.Media.Update)
	media.Delete("/:id", requireAuth, can(auth.ActionDelete, auth.ResourceMedia), cfg.Media.Delete)

	settings := api.Group("/settings")
	settings.Get("/", cfg.Site.Settings)
	settings.Get("/:key", cfg.Site.Setting)
	settings.Put("/:key", requireAuth, can(auth.ActionUpdate, auth.ResourceSettings), cfg.Site.PutSetting)
	settings.Delete("/:key", requireAuth, can(auth.ActionDelete, auth.ResourceSettings), cfg.Site.DeleteSetting)

	links := api.Group("/social-links")
	links.Get("/", cfg.Site.SocialLinks)
	links.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourceSocialLinks), cfg.Site.CreateSocialLink)
	links.Put("/:id", requireAuth, can(auth.ActionUpdate, auth.ResourceSocialLinks), cfg.Site.UpdateSocialLink)
	links.Delete("/:id", requireAuth, can(auth.ActionDelete, auth.ResourceSocialLinks), cfg.Site.DeleteSocialLink)

	comments := api.Group("/comments")
	comments.Get("/", optionalAuth, cfg.Interactions.Comments)
	comments.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourceComments), cfg.Interactions.AddComment)
	comments.Delete("/:id", requireAuth, can(auth.ActionDelete, auth.ResourceComments), cfg.Interactions.DeleteComment)

	likes := api.Group("/likes")
	likes.Get("/", optionalAuth, cfg.Interactions.Likes)
	likes.Post("/", requireAuth, can(auth.ActionCreate, auth.ResourceLikes), cfg.Interactions.ToggleLike)

	admin := api.Group("/admin", requireAuth)
	admin.Get("/users", can(auth.ActionRead, auth.ResourceUsers), cfg.Users.List)
	admin.Put("/users/:id/role", can(auth.ActionUpdate, auth.ResourceUsers), cfg.Users.UpdateRole)
}

func passthrough(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
