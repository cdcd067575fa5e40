package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerva-logistics/alertdispatch/config"
)

// escalationDrainTimeout bounds how long shutdown waits for in-flight escalations.
const escalationDrainTimeout = 10 * time.Second

// RunConfig contains everything RunServicesWithShutdown needs.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown initializes the dispatcher, serves HTTP and blocks until
// a shutdown signal is received or the server fails.
func RunServicesWithShutdown(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("run config requires AppConfig and services")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Dispatch answers "not initialized" until the connectivity check completes.
	go func() {
		if err := cfg.Services.Dispatcher.Initialize(serviceCtx); err != nil {
			logger.Error("connectivity check failed", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		HTTP:     cfg.Config.HTTP,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        serviceCtx,
		errCh:      errCh,
		httpServer: server,
		services:   cfg.Services,
		timeout:    cfg.Config.HTTP.ShutdownTimeout,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	errCh      <-chan error
	httpServer *http.Server
	services   *ServiceContainer
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for the context to end or the server to fail.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.ctx.Done():
		cfg.logger.Info("shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops accepting requests, then drains escalations.
func gracefulStop(cfg shutdownConfig) error {
	var errs []error
	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: context.WithoutCancel(cfg.ctx),
		Server:  cfg.httpServer,
		Timeout: cfg.timeout,
		Logger:  cfg.logger,
	}); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}

	if cfg.services != nil && cfg.services.Dispatcher != nil {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), escalationDrainTimeout)
		defer cancel()
		if err := cfg.services.Dispatcher.Wait(drainCtx); err != nil {
			cfg.logger.Warn("timeout waiting for escalations to finish", "error", err)
		}
	}

	return errors.Join(errs...)
}
