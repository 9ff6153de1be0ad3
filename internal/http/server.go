// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authorizationHTTP "github.com/allisson/securevault/internal/authorization/http"
	"github.com/allisson/securevault/internal/config"
	"github.com/allisson/securevault/internal/metrics"
	vaultHTTP "github.com/allisson/securevault/internal/vault/http"
)

// Pinger checks connectivity to the backing store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server represents the HTTP server.
type Server struct {
	db     Pinger
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server. The router is installed by SetupRouter.
func NewServer(
	db Pinger,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
func (s *Server) SetupRouter(
	cfg *config.Config,
	authorizationHandler *authorizationHTTP.AuthorizationHandler,
	vaultHandler *vaultHTTP.VaultHandler,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		managers := v1.Group("/managers")
		{
			managers.POST("", authorizationHandler.CreateManagerHandler)
			managers.GET("/:id", authorizationHandler.GetManagerHandler)
			managers.POST("/:id/authorizations/verify", authorizationHandler.VerifyAuthorizationHandler)
			managers.GET("/:id/authorizations/:authId", authorizationHandler.GetConsumptionHandler)
		}

		vaults := v1.Group("/vaults")
		{
			vaults.POST("", vaultHandler.CreateHandler)
			vaults.POST("/:id/initialize", vaultHandler.InitializeHandler)
			vaults.POST("/:id/deposits", vaultHandler.DepositHandler)
			vaults.POST("/:id/withdrawals", vaultHandler.WithdrawHandler)
			vaults.GET("/:id/balance", vaultHandler.GetBalanceHandler)
			vaults.GET("/:id/transfers", vaultHandler.ListTransfersHandler)
		}
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the configured router.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is up.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the backing store is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
