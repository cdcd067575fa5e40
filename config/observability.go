package config

import (
	"strings"
	"time"
)

const defaultObservabilityName = "alertdispatch"

// ObservabilityConfig groups configuration that controls metrics and escalation.
type ObservabilityConfig struct {
	Metrics    ObservabilityMetricsConfig
	Escalation ObservabilityEscalationConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Escalation.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to StatsD and the Prometheus endpoint.
type ObservabilityMetricsConfig struct {
	Enabled           bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress     string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix            string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"alertdispatch"`
	PrometheusEnabled bool   `env:"OBSERVABILITY_METRICS_PROMETHEUS"     envDefault:"true"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultObservabilityName
	}
}

// IsEnabled returns true when StatsD emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// ObservabilityEscalationConfig controls paging when a dispatch fails a critical channel.
type ObservabilityEscalationConfig struct {
	Enabled    bool                      `env:"OBSERVABILITY_ESCALATION_ENABLED"     envDefault:"false"`
	Timeout    time.Duration             `env:"OBSERVABILITY_ESCALATION_TIMEOUT"     envDefault:"5s"`
	RetryLimit int                       `env:"OBSERVABILITY_ESCALATION_RETRY_LIMIT" envDefault:"3"`
	PagerDuty  PagerDutyEscalationConfig `                                                          envPrefix:"OBSERVABILITY_ESCALATION_PAGERDUTY_"`
}

// Sanitize normalises escalation configuration values.
func (c *ObservabilityEscalationConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}

	c.PagerDuty.sanitize()

	if !c.Enabled {
		c.PagerDuty.Enabled = false
		return
	}
	if c.PagerDuty.Enabled && c.PagerDuty.RoutingKey == "" {
		c.PagerDuty.Enabled = false
	}
}

// PagerDutyEscalationConfig controls PagerDuty Events API v2 fan-out.
type PagerDutyEscalationConfig struct {
	Enabled    bool   `env:"ENABLED"     envDefault:"false"`
	RoutingKey string `env:"ROUTING_KEY"`
	Source     string `env:"SOURCE"      envDefault:"alertdispatch"`
	Component  string `env:"COMPONENT"   envDefault:"alert-delivery"`
	Endpoint   string `env:"ENDPOINT"`
}

func (c *PagerDutyEscalationConfig) sanitize() {
	c.RoutingKey = strings.TrimSpace(c.RoutingKey)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Source = strings.TrimSpace(c.Source); c.Source == "" {
		c.Source = defaultObservabilityName
	}
	if c.Component = strings.TrimSpace(c.Component); c.Component == "" {
		c.Component = "alert-delivery"
	}
}
