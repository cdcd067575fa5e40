package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nerva-logistics/alertdispatch/config"
	"github.com/nerva-logistics/alertdispatch/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(slog.LevelInfo)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	// Re-create the logger now that the configured level is known.
	logger = bootstrap.InitLogger(cfg.SlogLevel())
	logStartupInfo(ctx, logger, &cfg)

	services, err := bootstrap.BuildServices(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting alert dispatch service",
		"mode", cfg.Dispatch.Mode,
		"http_addr", cfg.HTTP.Addr,
		"email_provider", cfg.Providers.Email,
		"sms_provider", cfg.Providers.SMS,
		"whatsapp_provider", cfg.Providers.WhatsApp,
		"delivery_log_backend", cfg.DeliveryLog.Backend,
	)
}
