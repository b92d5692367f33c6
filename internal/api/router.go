package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/senado-bo/portal-api/docs"
	"github.com/senado-bo/portal-api/internal/api/handler"
	"github.com/senado-bo/portal-api/internal/api/middleware"
	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Log          zerolog.Logger
	ExposeDetail bool
	CORSOrigins  []string
	BodyLimit    string
	UploadDir    string

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry

	Gate        *middleware.Gate
	APILimiter  echomiddleware.RateLimiterStore
	AuthLimiter echomiddleware.RateLimiterStore
	Checks      map[string]handler.Check

	Auth        ports.AuthService
	Users       ports.UserService
	Contents    ports.ContentService
	Legislators ports.LegislatorService
	Tabs        ports.TabService
}

// Role allow-lists per route group.
var (
	staff      = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleEditor}
	admins     = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}
	superAdmin = []domain.Role{domain.RoleSuperAdmin}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ExposeDetail)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))
	if d.APILimiter != nil {
		e.Use(middleware.RateLimit("api", d.APILimiter))
	}

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/api/docs/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	api := e.Group("/api")

	// --- Health probes (no auth required) ---
	api.GET("/health", handler.NewHealthHandler().Liveness)
	api.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)

	authn := d.Gate.Authenticate()

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	strict := []echo.MiddlewareFunc{}
	if d.AuthLimiter != nil {
		strict = append(strict, middleware.RateLimit("auth", d.AuthLimiter))
	}
	auth.POST("/register", authHandler.Register, strict...)
	auth.POST("/login", authHandler.Login, strict...)
	auth.POST("/refresh", authHandler.Refresh, strict...)
	auth.POST("/validate", authHandler.Validate)
	auth.POST("/logout", authHandler.Logout, authn)
	auth.GET("/me", authHandler.Me, authn)
	auth.POST("/change-password", authHandler.ChangePassword, authn)

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Users)
	users := api.Group("/users", authn)
	users.POST("", userHandler.Create, middleware.RequireRole(admins...))
	users.GET("", userHandler.List, middleware.RequireRole(staff...))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, middleware.RequireRole(superAdmin...))

	// --- Contents ---
	contentHandler := handler.NewContentHandler(d.Contents)
	contents := api.Group("/contents")
	contents.GET("", contentHandler.List, d.Gate.Optional())
	contents.GET("/types", contentHandler.Types)
	contents.GET("/categories", contentHandler.Categories)
	contents.GET("/search", contentHandler.Search)
	contents.GET("/slug/:slug", contentHandler.GetBySlug)
	contents.GET("/stats", contentHandler.Stats, authn, middleware.RequireRole(staff...))
	contents.GET("/:id", contentHandler.Get)
	contents.GET("/:id/related", contentHandler.Related)
	contents.POST("", contentHandler.Create, authn, middleware.RequireRole(staff...))
	contents.PUT("/:id", contentHandler.Update, authn, middleware.RequireRole(staff...))
	contents.PATCH("/:id/status", contentHandler.ChangeStatus, authn, middleware.RequireRole(staff...))
	contents.DELETE("/:id", contentHandler.Delete, authn, middleware.RequireRole(admins...))

	// --- Legislators ---
	legislatorHandler := handler.NewLegislatorHandler(d.Legislators)
	legislators := api.Group("/legislators")
	legislators.GET("", legislatorHandler.List)
	legislators.GET("/positions", legislatorHandler.Positions)
	legislators.GET("/statuses", legislatorHandler.Statuses)
	legislators.GET("/distribution/party", legislatorHandler.DistributionByParty)
	legislators.GET("/distribution/department", legislatorHandler.DistributionByDepartment)
	legislators.GET("/commissions", legislatorHandler.Commissions)
	legislators.GET("/search", legislatorHandler.Search)
	legislators.GET("/ci/:ci", legislatorHandler.GetByCI)
	legislators.GET("/stats", legislatorHandler.Stats, authn, middleware.RequireRole(staff...))
	legislators.GET("/:id", legislatorHandler.Get)
	legislators.POST("", legislatorHandler.Create, authn, middleware.RequireRole(staff...))
	legislators.PUT("/:id", legislatorHandler.Update, authn, middleware.RequireRole(staff...))
	legislators.DELETE("/:id", legislatorHandler.Delete, authn, middleware.RequireRole(admins...))

	// --- Tabs ---
	tabHandler := handler.NewTabHandler(d.Tabs)
	tabs := api.Group("/tabs")
	tabs.GET("", tabHandler.Tree)
	tabs.GET("/icons", tabHandler.Icons)
	tabs.GET("/:categoryId/links", tabHandler.CategoryLinks)

	tabsAdmin := tabs.Group("/admin", authn, middleware.RequireRole(staff...))
	tabsAdmin.GET("/categories", tabHandler.ListCategories)
	tabsAdmin.GET("/categories/:id", tabHandler.GetCategory)
	tabsAdmin.POST("/categories", tabHandler.CreateCategory)
	tabsAdmin.PUT("/categories/:id", tabHandler.UpdateCategory)
	tabsAdmin.DELETE("/categories/:id", tabHandler.DeleteCategory, middleware.RequireRole(admins...))
	tabsAdmin.GET("/links", tabHandler.ListLinks)
	tabsAdmin.PUT("/links/reorder", tabHandler.ReorderLinks)
	tabsAdmin.GET("/links/:id", tabHandler.GetLink)
	tabsAdmin.POST("/links", tabHandler.CreateLink)
	tabsAdmin.PUT("/links/:id", tabHandler.UpdateLink)
	tabsAdmin.DELETE("/links/:id", tabHandler.DeleteLink, middleware.RequireRole(admins...))

	return e
}
