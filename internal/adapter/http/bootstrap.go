package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todolists/internal/adapter/http/routes"
	"todolists/internal/core/service"
	"todolists/internal/shared"
)

func StartServer(metrics *shared.AppMetrics, logger *shared.LokiLogger) {
	StartServerWithConfig(metrics, logger, shared.GetDefaultConfig())
}

func StartServerWithConfig(metrics *shared.AppMetrics, logger *shared.LokiLogger, config *shared.AppConfig) {
	container, err := NewContainer(logger, metrics)

	if err != nil {
		slog.Error("Failed to open database", "error", err)
		return
	}
	defer container.CloseDB()

	if config.SeedDemoData {
		if err := service.SeedDemoData(context.Background(), container.AuthService, container.ListService, container.TodoService); err != nil {
			slog.Error("Demo data seeding failed", "error", err)
		}
	}

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler: container.AuthHandler,
		ListHandler: container.ListHandler,
		TodoHandler: container.TodoHandler,
		Sessions:    container.Sessions,
	}, metrics, logger, config)

	port := os.Getenv("PORT")

	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting",
		"port", port,
		"environment", config.Environment,
		"rate_limit_enabled", config.RateLimitEnabled,
		"https_enforced", config.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
