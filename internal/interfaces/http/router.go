package http

import (
	stdhttp "net/http"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/forecast-cloud/internal/application/analytics"
	"github.com/jhoicas/forecast-cloud/internal/application/auth"
	"github.com/jhoicas/forecast-cloud/internal/application/dto"
	"github.com/jhoicas/forecast-cloud/internal/application/notifications"
	"github.com/jhoicas/forecast-cloud/internal/application/orders"
	"github.com/jhoicas/forecast-cloud/internal/application/ports"
	"github.com/jhoicas/forecast-cloud/internal/application/usecase"
)

// MetricsRegistry métricas HTTP más el endpoint /metrics.
type MetricsRegistry interface {
	HTTPObserver
	Handler() stdhttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Debug          bool
	CookieSecure   bool
	LoginRateLimit int    // intentos por minuto e IP; 0 desactiva
	MediaRoot      string // directorio servido en /media (solo backend local)
	SwaggerFile    string
	BodyLimit      int

	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProfileUC     *usecase.ProfileUseCase
	ClientUC      *usecase.ClientUseCase
	SupplierUC    *usecase.SupplierUseCase
	RawMaterialUC *usecase.RawMaterialUseCase
	Orders        *orders.Service
	Reports       *analytics.ReportUseCase
	Notifications *notifications.Service
	PDF           ports.WeeklyReportRenderer
	Metrics       MetricsRegistry
	Health        func() error

	Log zerolog.Logger
}

// NewApp crea la aplicación Fiber con middlewares y rutas.
func NewApp(deps RouterDeps) *fiber.App {
	bodyLimit := deps.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 8 << 20
	}
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    bodyLimit,
		ErrorHandler: NewErrorHandler(deps.Debug, deps.Log),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: deps.Debug}))
	app.Use(requestid.New())
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(AccessLog(deps.Log))
	if deps.Metrics != nil {
		app.Use(Metrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			// Swagger UI: /docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    deps.AppName + " API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MediaRoot != "" {
		app.Use("/media", mediaHeaders)
		app.Static("/media", deps.MediaRoot, fiber.Static{Browse: false})
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieSecure)
	loginGuard := loginLimiter(deps.LoginRateLimit)

	// Login por formulario (público)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", loginGuard, authHandler.LoginForm)
	app.Post("/logout", authHandler.Logout)

	api := app.Group("/api")
	api.Post("/auth/login", loginGuard, authHandler.Login)

	// Rutas protegidas (Bearer o cookie de sesión)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	userHandler := NewUserHandler(deps.UserUC, deps.ProfileUC)
	protected.Get("/mi-perfil", userHandler.Me)
	protected.Put("/mi-perfil", userHandler.UpdateMe)
	protected.Post("/mi-perfil", userHandler.UpdateMe)

	users := protected.Group("/usuarios", RequireAdmin())
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clientes")
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/proveedores")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	reportHandler := NewReportHandler(deps.Reports, deps.PDF)
	protected.Get("/dashboard", reportHandler.Dashboard)
	protected.Get("/entregas/calendario", reportHandler.Calendar)

	notificationHandler := NewNotificationHandler(deps.Notifications)
	protected.Get("/notificaciones", notificationHandler.List)

	orderHandler := NewOrderHandler(deps.Orders, deps.RawMaterialUC)
	pedidos := protected.Group("/pedidos")
	// rutas fijas antes de /:id
	pedidos.Get("/tablas", orderHandler.Table)
	pedidos.Get("/formulario", orderHandler.NewForm)
	pedidos.Get("/resumen", reportHandler.WeeklySummary)
	pedidos.Get("/resumen.pdf", reportHandler.WeeklySummaryPDF)
	pedidos.Get("/historial", reportHandler.History)
	pedidos.Get("/registros", reportHandler.StatusLogs)
	pedidos.Get("/materia-prima", orderHandler.RawMaterials)
	pedidos.Post("/materia-prima", orderHandler.CreateRawMaterial)
	pedidos.Get("/notificaciones", notificationHandler.Poll)
	pedidos.Post("/notificaciones/limpiar", notificationHandler.Clear)

	pedidos.Post("/", orderHandler.Create)
	pedidos.Get("/:id", orderHandler.GetByID)
	pedidos.Put("/:id", orderHandler.Update)
	pedidos.Delete("/:id", orderHandler.Delete)
	pedidos.Get("/:id/formulario", orderHandler.EditForm)
	pedidos.Get("/:id/estado", orderHandler.StatusForm)
	pedidos.Post("/:id/estado", orderHandler.ChangeStatus)
	pedidos.Post("/:id/realizado", orderHandler.MarkDelivered)
}

func loginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos de inicio de sesión, intenta en un minuto",
			})
		},
	})
}

// mediaHeaders impide que un archivo subido se interprete como documento activo.
func mediaHeaders(c *fiber.Ctx) error {
	err := c.Next()
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderContentSecurityPolicy, "default-src 'none'; sandbox")
	return err
}
