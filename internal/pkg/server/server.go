package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
)

// GracefulServer wraps an Echo server with graceful shutdown capabilities
type GracefulServer struct {
	echo *echo.Echo
	port int
}

// NewGracefulServer creates a new server with graceful shutdown
func NewGracefulServer(e *echo.Echo, port int) *GracefulServer {
	return &GracefulServer{
		echo: e,
		port: port,
	}
}

// Start starts the server and blocks until an interrupt or SIGTERM arrives
func (s *GracefulServer) Start() error {
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		logger.Info("starting HTTP server", logger.Fields{"address": addr})

		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.GetGlobalLogger().WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	// SIGTERM is what Kubernetes and Docker send on stop
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	sig := <-quit
	logger.Info("received shutdown signal", logger.Fields{"signal": sig.String()})

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *GracefulServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", logger.Fields{"error": err.Error()})
		return err
	}

	logger.Info("server shutdown completed", nil)
	return nil
}

// ShutdownManager collects cleanup functions to run during shutdown
type ShutdownManager struct {
	functions []func(context.Context) error
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager() *ShutdownManager {
	return &ShutdownManager{
		functions: make([]func(context.Context) error, 0),
	}
}

// Register adds a cleanup function to be called during shutdown
func (sm *ShutdownManager) Register(fn func(context.Context) error) {
	sm.functions = append(sm.functions, fn)
}

// Shutdown executes all registered cleanup functions, continuing past failures
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	logger.Info("shutting down components", logger.Fields{"components": len(sm.functions)})

	for i, fn := range sm.functions {
		if err := fn(ctx); err != nil {
			logger.Error("error during component shutdown", logger.Fields{
				"component": i,
				"error":     err.Error(),
			})
		}
	}
	return nil
}
