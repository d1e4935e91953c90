package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpcontext "github.com/dtroode/photogallery-server/internal/api/http/context"
	"github.com/dtroode/photogallery-server/internal/api/http/handler"
	"github.com/dtroode/photogallery-server/internal/api/http/middleware"
	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/service"
)

// bodyLimit leaves room for multipart overhead around the largest image.
const bodyLimit = service.MaxImageSize + 1<<20

// Router wires HTTP handlers and middleware for the photo gallery API.
type Router struct {
	authService    *service.Auth
	photoService   *service.Photo
	tokenService   *service.TokenService
	contextManager *httpcontext.Manager
	dependencies   map[string]handler.Pinger
	logger         *logger.Logger
}

// New creates new HTTP Router instance. Dependencies are checked by the
// readiness probe.
func New(
	authService *service.Auth,
	photoService *service.Photo,
	tokenService *service.TokenService,
	dependencies map[string]handler.Pinger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		photoService:   photoService,
		tokenService:   tokenService,
		contextManager: httpcontext.NewManager(),
		dependencies:   dependencies,
		logger:         logger,
	}
}

// Register builds the fiber application with every route and middleware.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "photogallery",
		ErrorHandler:          handler.ErrorHandler,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	logging := middleware.NewLogging(r.logger)
	app.Use(recover.New(), logging.HandleHTTP)

	r.registerHealthRoutes(app)

	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	api := app.Group("/api")
	r.registerAuthRoutes(api, authenticate)
	r.registerPhotoRoutes(api, authenticate)

	return app
}

func (r *Router) registerHealthRoutes(app *fiber.App) {
	health := handler.NewHealth(r.dependencies, r.logger)
	app.Get("/livez", health.Liveness)
	app.Get("/readyz", health.Readiness)
}

func (r *Router) registerAuthRoutes(api fiber.Router, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(r.authService, r.tokenService, r.contextManager, r.logger)

	auth := api.Group("/auth")
	auth.Post("/access-token", authHandler.Login)
	auth.Post("/refresh-token", authHandler.Refresh)
	auth.Post("/register", authHandler.Register)
	auth.Post("/revoke-token/:username", authenticate.Required, authHandler.Revoke)
	auth.Get("/check-token", authenticate.Required, authHandler.CheckToken)
	auth.Get("/status", authenticate.Optional, authHandler.Status)
}

func (r *Router) registerPhotoRoutes(api fiber.Router, authenticate *middleware.Authenticate) {
	photoHandler := handler.NewPhoto(r.photoService, r.contextManager, r.logger)

	photos := api.Group("/photos", authenticate.Required)
	photos.Get("/", photoHandler.List)
	photos.Get("/tag", photoHandler.Tags)
	photos.Get("/:id<int>", photoHandler.Get)
	photos.Post("/upload", photoHandler.Upload)
	photos.Delete("/:id<int>", photoHandler.Delete)
}
