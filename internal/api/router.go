package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sistemabancario/banking-system/internal/api/handler"
	"github.com/sistemabancario/banking-system/internal/api/middleware"
	"github.com/sistemabancario/banking-system/internal/core/ports"
	"github.com/sistemabancario/banking-system/internal/core/service"
	redisdedup "github.com/sistemabancario/banking-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// A nil Redis client disables idempotency-key replay detection.
func NewRouter(store ports.UserStore, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("banking"))

	// --- Dependencies ---
	var dedup service.DedupChecker
	if rdb != nil {
		dedup = redisdedup.NewDedupChecker(rdb)
	}
	authService := service.NewAuthService(store, jwtSecret, tokenTTL, log)
	ledgerService := service.NewLedgerService(store, dedup, log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(ledgerService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/accounts/:account/balance", accountHandler.Balance)
	v1.GET("/accounts/:account/movements", accountHandler.Movements)
	v1.POST("/accounts/:account/deposit", accountHandler.Deposit)
	v1.POST("/accounts/:account/withdraw", accountHandler.Withdraw)
	v1.POST("/transfers", accountHandler.Transfer)
	v1.PUT("/profile", authHandler.UpdateProfile)
	v1.PUT("/password", authHandler.ChangePassword)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(store, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
