package router

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"

	"github.com/dtroode/videobite-server/internal/api/http/handler"
	"github.com/dtroode/videobite-server/internal/api/http/middleware"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/model"
	"github.com/dtroode/videobite-server/internal/service"
	"github.com/dtroode/videobite-server/internal/validation"
)

const bodyLimit = 1 << 20

// Options holds transport settings for the HTTP router.
type Options struct {
	Production      bool
	Version         string
	CORSOrigins     []string
	RateLimitMax    int
	RateLimitWindow time.Duration
	// StaticDir is served under "/" when set.
	StaticDir string
}

// Router wires HTTP handlers and middleware for videobite operations.
type Router struct {
	authService    *service.Auth
	summaryService *service.Summary
	tokenService   *service.TokenService
	store          model.Pinger
	metrics        *metrics.Metrics
	contextManager model.ContextManager
	opts           Options
	logger         *logger.Logger
}

// New creates a new HTTP Router instance.
func New(
	authService *service.Auth,
	summaryService *service.Summary,
	tokenService *service.TokenService,
	store model.Pinger,
	m *metrics.Metrics,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		summaryService: summaryService,
		tokenService:   tokenService,
		store:          store,
		metrics:        m,
		contextManager: contextManager,
		opts:           opts,
		logger:         logger,
	}
}

// Register builds the fiber application with all routes and middleware.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:         "videobite",
		BodyLimit:       bodyLimit,
		ErrorHandler:    handler.ErrorHandler(r.logger, r.opts.Production),
		StructValidator: validation.New(),
	})

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	app.Use(requestid.New())
	app.Use(logging.Handle)
	app.Use(cors.New(cors.Config{
		AllowOrigins: r.opts.CORSOrigins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders: []string{fiber.HeaderAuthorization, fiber.HeaderContentType, fiber.HeaderXRequestID},
	}))
	app.Use(securityHeaders)
	if r.opts.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        r.opts.RateLimitMax,
			Expiration: r.opts.RateLimitWindow,
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/health" || c.Method() == fiber.MethodOptions
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"success": false,
					"message": "too many requests",
				})
			},
		}))
	}
	app.Use(recover.New(recover.Config{EnableStackTrace: !r.opts.Production}))

	system := handler.NewSystem(r.store, r.opts.Version, r.logger)
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)
	video := handler.NewVideo(r.summaryService, r.contextManager, r.logger)
	admin := handler.NewAdmin(r.summaryService, r.metrics, r.logger)

	app.Get("/health", system.Health)

	api := app.Group("/api")
	api.Get("/", system.Root)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", auth.Register)
	authGroup.Post("/login", auth.Login)
	authGroup.Get("/me", authenticate.Required, auth.Me)

	videos := api.Group("/videos")
	videos.Post("/summary", authenticate.Optional, video.CreateSummary)
	videos.Get("/summary/:id", authenticate.Optional, video.GetSummary)
	videos.Delete("/summary/:id", authenticate.Required, video.DeleteSummary)
	videos.Get("/my-summaries", authenticate.Required, video.MySummaries)
	videos.Post("/favorite/:id", authenticate.Required, video.ToggleFavorite)
	videos.Post("/channel", authenticate.Required, video.SummarizeChannel)

	adminGroup := api.Group("/admin", authenticate.Required, middleware.RequireRole(model.RoleAdmin, r.contextManager))
	adminGroup.Get("/metrics", admin.Metrics)
	adminGroup.Get("/archive/:videoId", admin.Archive)

	if r.opts.StaticDir != "" {
		app.Use("/", static.New(r.opts.StaticDir))
	}

	return app
}

func securityHeaders(c fiber.Ctx) error {
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
	return c.Next()
}
