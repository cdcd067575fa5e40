package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/nerva-logistics/alertdispatch/config"
	"github.com/nerva-logistics/alertdispatch/internal/deliverylog"
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/observability/metrics"
	"github.com/nerva-logistics/alertdispatch/internal/observability/notify/pagerduty"
	"github.com/nerva-logistics/alertdispatch/internal/observability/statsd"
	"github.com/nerva-logistics/alertdispatch/internal/service/alertdispatch"
	"github.com/nerva-logistics/alertdispatch/internal/service/escalation"
)

// ServiceContainer holds the dispatcher and the infrastructure it was built on.
type ServiceContainer struct {
	Dispatcher    *alertdispatch.Service
	Observability ObservabilityContainer
	Escalation    *escalation.Service
	Redis         redis.UniversalClient
}

// ObservabilityContainer holds metrics backends.
type ObservabilityContainer struct {
	Prometheus  *metrics.Prometheus
	MetricsSink *statsd.Client
	Recorder    metrics.Recorder
}

// BuildServices wires transports, the delivery log, metrics and escalation into a dispatcher.
// Callers must Close the container.
func BuildServices(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*ServiceContainer, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := cfg.Dispatch.ParsedMode()
	if err != nil {
		return nil, err
	}
	critical, err := cfg.Dispatch.Critical()
	if err != nil {
		return nil, fmt.Errorf("critical channels: %w", err)
	}

	channels, err := BuildChannels(cfg, logger)
	if err != nil {
		return nil, err
	}

	c := &ServiceContainer{}
	sink, err := c.buildDeliveryLog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c.Observability = buildObservability(logger, cfg.Observability.Metrics, mode)
	c.Escalation = buildEscalation(logger, cfg.Observability.Escalation, model.NewChannelSet(critical...))

	opts := alertdispatch.Options{
		Channels:       channels,
		Critical:       critical,
		Log:            sink,
		Metrics:        c.Observability.Recorder,
		Mode:           mode,
		ChannelTimeout: cfg.Dispatch.ChannelTimeout,
		DashboardURL:   cfg.Dispatch.DashboardURL,
		ContactPhone:   cfg.Dispatch.ContactPhone,
		BrandName:      cfg.Dispatch.BrandName,
		Logger:         logger,
	}
	if c.Escalation.Enabled() {
		opts.Escalator = c.Escalation
	}

	c.Dispatcher, err = alertdispatch.New(opts)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}

	logger.Info("alert dispatcher configured",
		"mode", mode,
		"critical_channels", critical,
		"delivery_log", cfg.DeliveryLog.Backend,
		"escalation", c.Escalation.Enabled(),
	)
	return c, nil
}

// Close releases the Redis and StatsD connections.
func (c *ServiceContainer) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := c.Observability.MetricsSink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close statsd: %w", err))
	}
	return errors.Join(errs...)
}

//nolint:ireturn // the sink backend is chosen from configuration.
func (c *ServiceContainer) buildDeliveryLog(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (deliverylog.Sink, error) {
	if !cfg.DeliveryLog.UsesRedis() {
		return deliverylog.NewMemory(cfg.DeliveryLog.Capacity), nil
	}

	client, err := ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("connect delivery log redis: %w", err)
	}
	c.Redis = client

	return deliverylog.NewRedis(deliverylog.RedisOptions{
		Client:   client,
		Key:      cfg.DeliveryLog.Key,
		Capacity: cfg.DeliveryLog.Capacity,
	})
}

func buildObservability(logger *slog.Logger, cfg config.ObservabilityMetricsConfig, mode model.Mode) ObservabilityContainer {
	obs := ObservabilityContainer{}
	var recorders metrics.Multi

	if cfg.PrometheusEnabled {
		obs.Prometheus = metrics.NewPrometheus()
		recorders = append(recorders, obs.Prometheus)
	}

	if cfg.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled:    true,
			Address:    cfg.StatsdAddress,
			Prefix:     cfg.Prefix,
			Logger:     logger.With("component", "statsd"),
			GlobalTags: map[string]string{"mode": string(mode)},
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			obs.MetricsSink = client
			recorders = append(recorders, metrics.StatsdRecorder{Sink: client})
		}
	}

	if len(recorders) > 0 {
		obs.Recorder = recorders
	}
	return obs
}

func buildEscalation(
	logger *slog.Logger,
	cfg config.ObservabilityEscalationConfig,
	critical model.ChannelSet,
) *escalation.Service {
	escLogger := logger.With("component", "escalation")
	if !cfg.Enabled {
		return escalation.NewService(escalation.Options{Logger: escLogger})
	}

	var sinks []escalation.SinkRegistration
	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Endpoint:   cfg.PagerDuty.Endpoint,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			escLogger.Error("failed to initialise pagerduty escalation", "error", err)
		} else {
			sinks = append(sinks, escalation.SinkRegistration{Name: "pagerduty", Sink: client})
		}
	}

	return escalation.NewService(escalation.Options{
		Logger:   escLogger,
		Sinks:    sinks,
		Critical: critical,
	})
}
