package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/Sowndhar-gif/halleyx/docs"
	"github.com/Sowndhar-gif/halleyx/internal/api/handler"
	"github.com/Sowndhar-gif/halleyx/internal/api/middleware"
	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

// Deps is everything the router needs. Mongo and Redis are optional and only
// feed the readiness check.
type Deps struct {
	Auth      ports.AuthService
	Orders    ports.OrderService
	Products  ports.ProductService
	Customers ports.CustomerService
	Settings  ports.SettingsService
	Tokens    ports.TokenIssuer

	Mongo *mongo.Database
	Redis *redis.Client

	// Registry receives the HTTP metrics; nil means the prometheus default
	// registry, which also holds the engine's collectors.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Mongo, d.Redis)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(d.Tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/admin-login", authHandler.AdminLogin)
	auth.POST("/impersonate/:customerId", authHandler.Impersonate, authn, adminOnly)

	// --- Orders ---
	orderHandler := handler.NewOrderHandler(d.Orders)
	orders := api.Group("/orders", authn)
	orders.POST("", orderHandler.Place)
	orders.GET("/mine", orderHandler.Mine)
	orders.GET("", orderHandler.List, adminOnly)
	orders.PUT("/:id", orderHandler.Update, adminOnly)
	orders.DELETE("/:id", orderHandler.Delete, adminOnly)

	// --- Products ---
	productHandler := handler.NewProductHandler(d.Products)
	products := api.Group("/products", authn)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get, adminOnly)
	products.POST("", productHandler.Create, adminOnly)
	products.PUT("/:id", productHandler.Update, adminOnly)
	products.DELETE("/:id", productHandler.Delete, adminOnly)

	// --- Customers ---
	customerHandler := handler.NewCustomerHandler(d.Customers)
	customers := api.Group("/customers", authn, adminOnly)
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.POST("", customerHandler.Create)
	customers.PUT("/:id", customerHandler.Update)
	customers.POST("/:id/reset-password", customerHandler.ResetPassword)
	customers.DELETE("/:id", customerHandler.Delete)

	// --- Settings ---
	settingsHandler := handler.NewSettingsHandler(d.Settings)
	settings := api.Group("/settings", authn)
	settings.GET("/branding", settingsHandler.Branding)
	settings.PUT("/branding", settingsHandler.UpdateBranding, adminOnly)
	settings.GET("/admin-dashboard", settingsHandler.Dashboard, adminOnly)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
