package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by the *_PROVIDER variables.
const (
	ProviderNone     = "none"
	ProviderSendGrid = "sendgrid"
	ProviderTwilio   = "twilio"
)

// ProviderConfig selects the live integration behind each provider-backed channel.
// "none" keeps the channel unimplemented in live mode.
type ProviderConfig struct {
	Email    string `env:"EMAIL_PROVIDER"    envDefault:"none"`
	SMS      string `env:"SMS_PROVIDER"      envDefault:"none"`
	WhatsApp string `env:"WHATSAPP_PROVIDER" envDefault:"none"`
}

// Sanitize normalises provider names.
func (c *ProviderConfig) Sanitize() {
	c.Email = normalizeProvider(c.Email)
	c.SMS = normalizeProvider(c.SMS)
	c.WhatsApp = normalizeProvider(c.WhatsApp)
}

// Validate rejects unknown provider names.
func (c *ProviderConfig) Validate() error {
	var errs []error
	if c.Email != ProviderNone && c.Email != ProviderSendGrid {
		errs = append(errs, fmt.Errorf("invalid EMAIL_PROVIDER: %q (valid options: none, sendgrid)", c.Email))
	}
	if c.SMS != ProviderNone && c.SMS != ProviderTwilio {
		errs = append(errs, fmt.Errorf("invalid SMS_PROVIDER: %q (valid options: none, twilio)", c.SMS))
	}
	if c.WhatsApp != ProviderNone && c.WhatsApp != ProviderTwilio {
		errs = append(errs, fmt.Errorf("invalid WHATSAPP_PROVIDER: %q (valid options: none, twilio)", c.WhatsApp))
	}
	return errors.Join(errs...)
}

func normalizeProvider(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ProviderNone
	}
	return v
}

// SendGridConfig holds SendGrid v3 credentials.
type SendGridConfig struct {
	APIKey    string `env:"API_KEY"`
	FromEmail string `env:"FROM_EMAIL"`
	FromName  string `env:"FROM_NAME"`
	// BaseURL overrides the API host (tests, regional endpoints).
	BaseURL string `env:"BASE_URL"`
}

// Sanitize trims credentials.
func (c *SendGridConfig) Sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.FromEmail = strings.TrimSpace(c.FromEmail)
	c.FromName = strings.TrimSpace(c.FromName)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
}

// Validate checks the fields required to send mail.
func (c *SendGridConfig) Validate() error {
	if c.APIKey == "" || c.FromEmail == "" {
		return errors.New("SENDGRID_API_KEY and SENDGRID_FROM_EMAIL are required when EMAIL_PROVIDER=sendgrid")
	}
	return nil
}

// TwilioConfig holds Twilio Messages API credentials shared by SMS and WhatsApp.
type TwilioConfig struct {
	AccountSID   string `env:"ACCOUNT_SID"`
	AuthToken    string `env:"AUTH_TOKEN"`
	FromPhone    string `env:"FROM_PHONE"`
	WhatsAppFrom string `env:"WHATSAPP_FROM"`
	BaseURL      string `env:"BASE_URL"`
}

// Sanitize trims credentials.
func (c *TwilioConfig) Sanitize() {
	c.AccountSID = strings.TrimSpace(c.AccountSID)
	c.AuthToken = strings.TrimSpace(c.AuthToken)
	c.FromPhone = strings.TrimSpace(c.FromPhone)
	c.WhatsAppFrom = strings.TrimSpace(c.WhatsAppFrom)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
}

// Validate checks the fields required to send messages.
func (c *TwilioConfig) Validate(whatsapp bool) error {
	if c.AccountSID == "" || c.AuthToken == "" {
		return errors.New("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required when a twilio provider is selected")
	}
	if whatsapp && c.WhatsAppFrom == "" && c.FromPhone == "" {
		return errors.New("TWILIO_WHATSAPP_FROM is required when WHATSAPP_PROVIDER=twilio")
	}
	return nil
}

// WebhookConfig holds the Teams and Slack incoming webhook endpoints.
type WebhookConfig struct {
	TeamsURL   string        `env:"TEAMS_WEBHOOK_URL"`
	SlackURL   string        `env:"SLACK_WEBHOOK_URL"`
	Timeout    time.Duration `env:"WEBHOOK_TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"WEBHOOK_RETRY_LIMIT" envDefault:"2"`
}

// Sanitize trims endpoints and clamps timeouts.
func (c *WebhookConfig) Sanitize() {
	c.TeamsURL = strings.TrimSpace(c.TeamsURL)
	c.SlackURL = strings.TrimSpace(c.SlackURL)
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
}
