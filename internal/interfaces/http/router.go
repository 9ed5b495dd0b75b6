package http

import (
	_ "embed"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/idcr-client/internal/application/auth"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

//go:embed swagger.json
var swaggerJSON []byte

// bodyLimit margen para varios archivos de hasta 10 MiB en una misma carga.
const bodyLimit = 100 << 20

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	DocumentUC     *usecase.DocumentUseCase
	UploadUC       *usecase.UploadUseCase
	StatsUC        *usecase.StatsUseCase
	NotificationUC *usecase.NotificationUseCase
	SystemUC       *usecase.SystemUseCase
	JWTSecret      string
	Log            *logger.Logger
}

// NewApp construye la aplicación Fiber con middlewares, Swagger UI en /docs y las rutas.
func NewApp(name string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(RequestLogger(deps.Log))

	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: swaggerJSON,
		Path:        "docs",
		Title:       "IDCR Sandbox API",
	}))

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Público
	authHandler := NewAuthHandler(deps.AuthUC)
	systemHandler := NewSystemHandler(deps.SystemUC)
	api.Post("/login", authHandler.Login)
	api.Post("/register", authHandler.Register)
	api.Get("/health", systemHandler.Health)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/me", authHandler.Me)
	protected.Get("/system/stats", systemHandler.Stats)

	reviewers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	docs := protected.Group("/documents")
	docHandler := NewDocumentHandler(deps.DocumentUC)
	docs.Get("/", docHandler.List)
	docs.Get("/:id", docHandler.Get)
	docs.Get("/:id/download", docHandler.Download)
	docs.Post("/:id/review", reviewers, docHandler.Review)
	docs.Post("/:id/approve", reviewers, docHandler.Approve)
	docs.Post("/:id/reject", reviewers, docHandler.Reject)
	docs.Delete("/:id", reviewers, docHandler.Delete)

	uploadHandler := NewUploadHandler(deps.UploadUC)
	protected.Post("/bulk-upload", uploadHandler.BulkUpload)

	protected.Get("/stats", NewDashboardHandler(deps.StatsUC).GetStats)
	protected.Get("/analytics", NewAnalyticsHandler(deps.StatsUC).GetAnalytics)

	notifs := protected.Group("/email-notifications")
	notifHandler := NewNotificationHandler(deps.NotificationUC)
	notifs.Get("/", notifHandler.List)
	notifs.Get("/unread-count", notifHandler.UnreadCount)
	notifs.Patch("/:id/read", notifHandler.MarkRead)
}
