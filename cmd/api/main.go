package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/retention-api/internal/app"
	"github.com/jwalitptl/retention-api/internal/config"
	auditHandler "github.com/jwalitptl/retention-api/internal/handler/audit"
	"github.com/jwalitptl/retention-api/internal/handler/health"
	retentionHandler "github.com/jwalitptl/retention-api/internal/handler/retention"
	"github.com/jwalitptl/retention-api/internal/middleware"
	"github.com/jwalitptl/retention-api/internal/router"
	"github.com/jwalitptl/retention-api/pkg/auth"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := app.NewLogger(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	a, err := app.New(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err, "failed to initialise retention engine")
	}
	defer a.Close()

	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth.Secret != "" {
		authMiddleware = middleware.NewAuthMiddleware(
			auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.Issuer),
			cfg.Auth.RequiredRole,
		)
	} else {
		appLogger.Warn("auth.secret is not set; the API is unauthenticated and records ADMIN as the actor")
	}

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		health.NewHandler(a.DB),
		[]router.Handler{
			retentionHandler.NewHandler(a.Retention),
			auditHandler.NewHandler(a.Audit),
		},
		a.Metrics,
		appLogger.Zerolog(),
		router.RouterConfig{RateLimit: cfg.RateLimit},
	)
	r.Setup()

	// Create server
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}

	// Start server
	go func() {
		appLogger.Info("server starting", "addr", srv.Addr, "driver", a.DB.DriverName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
