package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// DispatchConfig controls how alerts are fanned out.
type DispatchConfig struct {
	// Mode selects simulated (demo) or real (live) transports.
	Mode string `env:"DISPATCH_MODE" envDefault:"demo"`

	// CriticalChannels is a comma-delimited list of channels whose failure marks a dispatch unsuccessful.
	CriticalChannels string `env:"DISPATCH_CRITICAL_CHANNELS" envDefault:"email,sms"`

	// ChannelTimeout bounds each channel attempt.
	ChannelTimeout time.Duration `env:"DISPATCH_CHANNEL_TIMEOUT" envDefault:"10s"`

	// DashboardURL is linked from rendered messages (e.g. "https://dashboard.example.com").
	DashboardURL string `env:"DISPATCH_DASHBOARD_URL"`

	// ContactPhone is appended to SMS and WhatsApp messages when set.
	ContactPhone string `env:"DISPATCH_CONTACT_PHONE"`

	// BrandName appears in email footers and Slack attachments.
	BrandName string `env:"DISPATCH_BRAND_NAME"`
}

// Sanitize normalises dispatch values.
func (c *DispatchConfig) Sanitize() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = string(model.ModeDemo)
	}
	if c.ChannelTimeout <= 0 {
		c.ChannelTimeout = 10 * time.Second
	}
	c.DashboardURL = strings.TrimRight(strings.TrimSpace(c.DashboardURL), "/")
	c.ContactPhone = strings.TrimSpace(c.ContactPhone)
	c.BrandName = strings.TrimSpace(c.BrandName)
}

// ParsedMode returns the dispatch mode.
func (c *DispatchConfig) ParsedMode() (model.Mode, error) {
	m := model.Mode(c.Mode)
	if !m.Valid() {
		return "", fmt.Errorf("invalid DISPATCH_MODE: %q (valid options: demo, live)", c.Mode)
	}
	return m, nil
}

// Critical returns the parsed critical channel set.
func (c *DispatchConfig) Critical() ([]model.Channel, error) {
	return model.ParseChannels(c.CriticalChannels)
}

// SimulationConfig tunes the simulated providers used in demo mode.
type SimulationConfig struct {
	SuccessRate float64 `env:"SIMULATION_SUCCESS_RATE" envDefault:"0.95"`

	// LatencyScale multiplies every delay; 0 makes simulated deliveries instant.
	LatencyScale float64 `env:"SIMULATION_LATENCY_SCALE" envDefault:"1.0"`

	EmailDelay    time.Duration `env:"SIMULATION_EMAIL_DELAY"    envDefault:"1500ms"`
	SMSDelay      time.Duration `env:"SIMULATION_SMS_DELAY"      envDefault:"2s"`
	TeamsDelay    time.Duration `env:"SIMULATION_TEAMS_DELAY"    envDefault:"2500ms"`
	SlackDelay    time.Duration `env:"SIMULATION_SLACK_DELAY"    envDefault:"1800ms"`
	WhatsAppDelay time.Duration `env:"SIMULATION_WHATSAPP_DELAY" envDefault:"3s"`
}

// Sanitize clamps the success rate and latency scale.
func (c *SimulationConfig) Sanitize() {
	c.SuccessRate = min(max(c.SuccessRate, 0), 1)
	if c.LatencyScale < 0 {
		c.LatencyScale = 0
	}
}

// Delay returns the scaled simulated latency for a channel.
func (c *SimulationConfig) Delay(ch model.Channel) time.Duration {
	var d time.Duration
	switch ch {
	case model.ChannelEmail:
		d = c.EmailDelay
	case model.ChannelSMS:
		d = c.SMSDelay
	case model.ChannelTeams:
		d = c.TeamsDelay
	case model.ChannelSlack:
		d = c.SlackDelay
	case model.ChannelWhatsApp:
		d = c.WhatsAppDelay
	}
	return time.Duration(float64(max(d, 0)) * c.LatencyScale)
}
