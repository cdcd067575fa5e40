package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/nerva-logistics/alertdispatch/config"
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/transport"
)

// providerNames labels each channel's upstream provider in simulated and unimplemented outcomes.
var providerNames = map[model.Channel]string{
	model.ChannelEmail:    "SendGrid",
	model.ChannelSMS:      "Twilio",
	model.ChannelTeams:    "Microsoft Teams",
	model.ChannelSlack:    "Slack",
	model.ChannelWhatsApp: "WhatsApp",
}

// BuildChannels selects one deliverer per channel for the configured mode.
func BuildChannels(cfg *config.AppConfig, logger *slog.Logger) ([]*transport.Channel, error) {
	mode, err := cfg.Dispatch.ParsedMode()
	if err != nil {
		return nil, err
	}

	channels := make([]*transport.Channel, 0, len(model.Channels))
	for _, ch := range model.Channels {
		var deliverer transport.Deliverer
		if mode == model.ModeDemo {
			deliverer = transport.NewSimulated(transport.SimulatedConfig{
				Provider:    providerNames[ch],
				Delay:       cfg.Simulation.Delay(ch),
				SuccessRate: cfg.Simulation.SuccessRate,
			})
		} else {
			deliverer, err = liveDeliverer(cfg, ch)
			if err != nil {
				return nil, fmt.Errorf("build %s transport: %w", ch, err)
			}
		}

		channel, err := transport.NewChannel(transport.ChannelOptions{
			Channel:   ch,
			Deliverer: deliverer,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

//nolint:ireturn // the deliverer variant is chosen from configuration.
func liveDeliverer(cfg *config.AppConfig, ch model.Channel) (transport.Deliverer, error) {
	hooks := cfg.Webhooks
	switch ch {
	case model.ChannelEmail:
		if cfg.Providers.Email != config.ProviderSendGrid {
			return transport.Unimplemented{Provider: providerNames[ch]}, nil
		}
		return transport.NewSendGrid(transport.SendGridConfig{
			APIKey:     cfg.SendGrid.APIKey,
			FromEmail:  cfg.SendGrid.FromEmail,
			FromName:   cfg.SendGrid.FromName,
			BaseURL:    cfg.SendGrid.BaseURL,
			Timeout:    hooks.Timeout,
			RetryLimit: hooks.RetryLimit,
		})
	case model.ChannelSMS:
		if cfg.Providers.SMS != config.ProviderTwilio {
			return transport.Unimplemented{Provider: providerNames[ch]}, nil
		}
		return newTwilio(cfg, cfg.Twilio.FromPhone, false)
	case model.ChannelWhatsApp:
		if cfg.Providers.WhatsApp != config.ProviderTwilio {
			return transport.Unimplemented{Provider: providerNames[model.ChannelSMS]}, nil
		}
		from := cfg.Twilio.WhatsAppFrom
		if from == "" {
			from = cfg.Twilio.FromPhone
		}
		return newTwilio(cfg, from, true)
	case model.ChannelTeams:
		return transport.NewWebhook(transport.WebhookConfig{
			Service:    string(ch),
			URL:        hooks.TeamsURL,
			Timeout:    hooks.Timeout,
			RetryLimit: hooks.RetryLimit,
		})
	case model.ChannelSlack:
		return transport.NewWebhook(transport.WebhookConfig{
			Service:    string(ch),
			URL:        hooks.SlackURL,
			Timeout:    hooks.Timeout,
			RetryLimit: hooks.RetryLimit,
		})
	default:
		return nil, fmt.Errorf("no live transport for channel %q", ch)
	}
}

func newTwilio(cfg *config.AppConfig, from string, whatsapp bool) (*transport.Twilio, error) {
	return transport.NewTwilio(transport.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		From:       from,
		WhatsApp:   whatsapp,
		BaseURL:    cfg.Twilio.BaseURL,
		Timeout:    cfg.Webhooks.Timeout,
		RetryLimit: cfg.Webhooks.RetryLimit,
	})
}
