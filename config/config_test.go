package config

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

func parse(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	if cfg.Dispatch.Mode != "demo" {
		t.Errorf("Dispatch.Mode = %q, want demo", cfg.Dispatch.Mode)
	}
	if cfg.Dispatch.ChannelTimeout != 10*time.Second {
		t.Errorf("Dispatch.ChannelTimeout = %v, want 10s", cfg.Dispatch.ChannelTimeout)
	}
	critical, err := cfg.Dispatch.Critical()
	if err != nil {
		t.Fatalf("Critical() error: %v", err)
	}
	if !reflect.DeepEqual(critical, []model.Channel{model.ChannelEmail, model.ChannelSMS}) {
		t.Errorf("Critical() = %v, want [email sms]", critical)
	}
	if cfg.Simulation.SuccessRate != 0.95 {
		t.Errorf("Simulation.SuccessRate = %v, want 0.95", cfg.Simulation.SuccessRate)
	}
	if cfg.Simulation.Delay(model.ChannelWhatsApp) != 3*time.Second {
		t.Errorf("WhatsApp delay = %v, want 3s", cfg.Simulation.Delay(model.ChannelWhatsApp))
	}
	if cfg.Providers.Email != ProviderNone || cfg.Providers.SMS != ProviderNone {
		t.Errorf("Providers = %+v, want none", cfg.Providers)
	}
	if cfg.DeliveryLog.Backend != DeliveryLogMemory || cfg.DeliveryLog.Capacity != 500 {
		t.Errorf("DeliveryLog = %+v", cfg.DeliveryLog)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLiveProvidersFromEnv(t *testing.T) {
	t.Setenv("DISPATCH_MODE", " LIVE ")
	t.Setenv("DISPATCH_CRITICAL_CHANNELS", "email, whatsapp")
	t.Setenv("DISPATCH_DASHBOARD_URL", "https://dashboard.example.com/")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("SENDGRID_API_KEY", " SG.key ")
	t.Setenv("SENDGRID_FROM_EMAIL", "alerts@example.com")
	t.Setenv("WHATSAPP_PROVIDER", "twilio")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_WHATSAPP_FROM", "+15555550199")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://teams.example.com/hook")
	t.Setenv("DELIVERY_LOG_BACKEND", "redis")
	t.Setenv("REDIS_URI", "redis://cache:6379/0")

	cfg := parse(t)

	mode, err := cfg.Dispatch.ParsedMode()
	if err != nil || mode != model.ModeLive {
		t.Fatalf("ParsedMode() = %v, %v; want live", mode, err)
	}
	if cfg.Dispatch.DashboardURL != "https://dashboard.example.com" {
		t.Errorf("DashboardURL = %q", cfg.Dispatch.DashboardURL)
	}
	if cfg.Providers.Email != ProviderSendGrid || cfg.SendGrid.APIKey != "SG.key" {
		t.Errorf("email provider = %q key = %q", cfg.Providers.Email, cfg.SendGrid.APIKey)
	}
	if cfg.Twilio.WhatsAppFrom != "+15555550199" {
		t.Errorf("Twilio.WhatsAppFrom = %q", cfg.Twilio.WhatsAppFrom)
	}
	if cfg.Webhooks.TeamsURL != "https://teams.example.com/hook" {
		t.Errorf("Webhooks.TeamsURL = %q", cfg.Webhooks.TeamsURL)
	}
	if !cfg.DeliveryLog.UsesRedis() || cfg.Redis.URI != "redis://cache:6379/0" {
		t.Errorf("delivery log = %+v redis = %q", cfg.DeliveryLog, cfg.Redis.URI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{
			name:    "bad mode",
			mutate:  func(c *AppConfig) { c.Dispatch.Mode = "staging" },
			wantErr: "invalid DISPATCH_MODE",
		},
		{
			name:    "bad critical channel",
			mutate:  func(c *AppConfig) { c.Dispatch.CriticalChannels = "email,pager" },
			wantErr: "DISPATCH_CRITICAL_CHANNELS",
		},
		{
			name:    "bad provider",
			mutate:  func(c *AppConfig) { c.Providers.SMS = "vonage" },
			wantErr: "invalid SMS_PROVIDER",
		},
		{
			name:    "sendgrid without key",
			mutate:  func(c *AppConfig) { c.Providers.Email = ProviderSendGrid },
			wantErr: "SENDGRID_API_KEY",
		},
		{
			name:    "twilio without credentials",
			mutate:  func(c *AppConfig) { c.Providers.SMS = ProviderTwilio },
			wantErr: "TWILIO_ACCOUNT_SID",
		},
		{
			name:    "bad log backend",
			mutate:  func(c *AppConfig) { c.DeliveryLog.Backend = "postgres" },
			wantErr: "invalid DELIVERY_LOG_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parse(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSimulationSanitize(t *testing.T) {
	c := SimulationConfig{SuccessRate: 1.7, LatencyScale: 0.5, SMSDelay: 2 * time.Second}
	c.Sanitize()
	if c.SuccessRate != 1 {
		t.Errorf("SuccessRate = %v, want 1", c.SuccessRate)
	}
	if got := c.Delay(model.ChannelSMS); got != time.Second {
		t.Errorf("Delay(sms) = %v, want 1s", got)
	}

	c = SimulationConfig{SuccessRate: -1, LatencyScale: -2, EmailDelay: time.Second}
	c.Sanitize()
	if c.SuccessRate != 0 || c.Delay(model.ChannelEmail) != 0 {
		t.Errorf("negative values not clamped: %+v", c)
	}
}

func TestEscalationSanitize(t *testing.T) {
	c := ObservabilityEscalationConfig{
		Enabled:   true,
		PagerDuty: PagerDutyEscalationConfig{Enabled: true},
	}
	c.Sanitize()
	if c.PagerDuty.Enabled {
		t.Error("PagerDuty should be disabled without a routing key")
	}
	if c.PagerDuty.Source != "alertdispatch" || c.Timeout != 5*time.Second {
		t.Errorf("defaults not applied: %+v", c)
	}

	c = ObservabilityEscalationConfig{
		Enabled:   false,
		PagerDuty: PagerDutyEscalationConfig{Enabled: true, RoutingKey: "rk"},
	}
	c.Sanitize()
	if c.PagerDuty.Enabled {
		t.Error("PagerDuty should be disabled when escalation is off")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		c := AppConfig{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
