package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - dispatch.go: Dispatch mode, critical channels and simulation tuning
//   - providers.go: Live provider credentials and webhook endpoints
//   - storage.go: Delivery log backend and Redis connection
//   - http.go: HTTP server configuration
//   - observability.go: Metrics and escalation
type AppConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Dispatch   DispatchConfig
	Simulation SimulationConfig

	// Live provider configuration
	Providers ProviderConfig
	SendGrid  SendGridConfig `envPrefix:"SENDGRID_"`
	Twilio    TwilioConfig   `envPrefix:"TWILIO_"`
	Webhooks  WebhookConfig

	// Storage configuration
	DeliveryLog DeliveryLogConfig `envPrefix:"DELIVERY_LOG_"`
	Redis       RedisConfig       `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Dispatch.Sanitize()
	c.Simulation.Sanitize()
	c.Providers.Sanitize()
	c.SendGrid.Sanitize()
	c.Twilio.Sanitize()
	c.Webhooks.Sanitize()
	c.DeliveryLog.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports every configuration problem that would prevent startup.
func (c *AppConfig) Validate() error {
	var errs []error
	if _, err := c.Dispatch.ParsedMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Dispatch.Critical(); err != nil {
		errs = append(errs, fmt.Errorf("DISPATCH_CRITICAL_CHANNELS: %w", err))
	}
	if err := c.Providers.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Providers.Email == ProviderSendGrid {
		if err := c.SendGrid.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Providers.SMS == ProviderTwilio || c.Providers.WhatsApp == ProviderTwilio {
		if err := c.Twilio.Validate(c.Providers.WhatsApp == ProviderTwilio); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.DeliveryLog.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
