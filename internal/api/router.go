package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/api/handler"
	"github.com/digitalgoods/storefront/internal/api/middleware"
	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/service"
	"github.com/digitalgoods/storefront/internal/infrastructure/http/handlers"
	"github.com/digitalgoods/storefront/internal/infrastructure/restapi"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
)

// Deps are the long-lived collaborators the console routes share.
type Deps struct {
	Client      *restapi.Client
	Session     *service.SessionStore
	CartChanges *notify.Topic[domain.CartChanged]
	Badge       *service.CartBadge
	// Redis is nil when the cart relay is disabled.
	Redis      *redis.Client
	SignInPath string
	Log        zerolog.Logger
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
	e.Use(middleware.RequestLogger(d.Log))

	// --- Dependencies ---
	cartService := service.NewCartService(d.Client.Cart(), d.Client.Orders(), d.CartChanges, d.Log)
	backOffice := service.NewBackOffice(d.Client.Admin(), d.Client.Products(), d.Client.AdminOrders(), d.Session, d.Log)

	authHandler := handler.NewAuthHandler(d.Session)
	adminHandler := handler.NewAdminHandler(d.Session, backOffice, d.SignInPath)
	catalogHandler := handler.NewCatalogHandler(d.Client.Products())
	cartHandler := handler.NewCartHandler(cartService, d.Badge)
	eventsHandler := handler.NewEventsHandler(d.Session, d.CartChanges, d.Log)

	requireUser := middleware.RequireUser(d.Session)
	adminGuard := middleware.AdminGuard(d.Session, d.SignInPath)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Client, d.Session.Ready(), d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// --- Session ---
	api.GET("/session", authHandler.Session)
	api.GET("/events", eventsHandler.Stream)

	// --- Customer auth ---
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.POST("/auth/logout", authHandler.Logout)
	api.PATCH("/auth/profile", authHandler.UpdateProfile, requireUser)

	// --- Catalog (public) ---
	api.GET("/products", catalogHandler.List)
	api.GET("/products/:id", catalogHandler.Get)

	// --- Cart & orders (customer) ---
	api.GET("/cart/count", cartHandler.Count)
	cart := api.Group("/cart", requireUser)
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.AddItem)
	cart.PATCH("/items/:id", cartHandler.UpdateItem)
	cart.DELETE("/items/:id", cartHandler.RemoveItem)

	orders := api.Group("/orders", requireUser)
	orders.GET("", cartHandler.Orders)
	orders.POST("/checkout", cartHandler.Checkout)

	// --- Admin session ---
	e.GET(d.SignInPath, adminHandler.LoginPage)
	api.POST("/admin/signin", adminHandler.SignIn)
	api.POST("/admin/logout", adminHandler.Logout)

	// --- Back office (admin) ---
	admin := api.Group("/admin", adminGuard)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/products", adminHandler.CreateProduct)
	admin.PATCH("/products/:id", adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", adminHandler.DeleteProduct)
	admin.GET("/orders", adminHandler.Orders)
	admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

	return e
}
