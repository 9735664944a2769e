package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/authfacil/auth-system/internal/api/handler"
	"github.com/authfacil/auth-system/internal/api/middleware"
	"github.com/authfacil/auth-system/internal/core/domain"
	"github.com/authfacil/auth-system/internal/core/ports"
)

// Dependencies carries the shared resources the router wires together.
type Dependencies struct {
	Accounts  ports.AccountService
	DB        *sqlx.DB
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("authsys"))

	authHandler := handler.NewAuthHandler(deps.Accounts)
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	auditHandler := handler.NewAuditHandler(deps.Accounts)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Public auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/recover", authHandler.Recover)
	e.POST("/auth/logout", accountHandler.Logout, authMiddleware)

	// --- Authenticated profile routes ---
	profile := e.Group("/profile", authMiddleware)
	profile.GET("", accountHandler.Profile)
	profile.PUT("/username", accountHandler.EditUsername)
	profile.PUT("/email", accountHandler.EditEmail)
	profile.PUT("/password", accountHandler.EditPassword)
	profile.DELETE("", accountHandler.Delete)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/audit", auditHandler.Recent)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
