package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/transport"
)

func transportsByChannel(channels []*transport.Channel) map[model.Channel]*transport.Channel {
	out := make(map[model.Channel]*transport.Channel, len(channels))
	for _, ch := range channels {
		out[ch.Channel()] = ch
	}
	return out
}

func TestBuildChannels_Demo(t *testing.T) {
	cfg := testConfig(t, map[string]string{"DISPATCH_MODE": "demo"})

	channels, err := BuildChannels(cfg, nil)
	require.NoError(t, err)
	require.Len(t, channels, len(model.Channels))
	for _, ch := range channels {
		assert.True(t, ch.Demo(), "channel %s", ch.Channel())
		assert.Equal(t, "simulated", ch.TransportName())
	}
}

func TestBuildChannels_LiveDefaults(t *testing.T) {
	cfg := testConfig(t, map[string]string{"DISPATCH_MODE": "live"})

	channels, err := BuildChannels(cfg, nil)
	require.NoError(t, err)

	got := transportsByChannel(channels)
	want := map[model.Channel]string{
		model.ChannelEmail:    "unimplemented",
		model.ChannelSMS:      "unimplemented",
		model.ChannelWhatsApp: "unimplemented",
		model.ChannelTeams:    "webhook",
		model.ChannelSlack:    "webhook",
	}
	for ch, name := range want {
		require.Contains(t, got, ch)
		assert.Equal(t, name, got[ch].TransportName(), "channel %s", ch)
		assert.False(t, got[ch].Demo())
	}
}

func TestBuildChannels_LiveProviders(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"DISPATCH_MODE":        "live",
		"EMAIL_PROVIDER":       "sendgrid",
		"SENDGRID_API_KEY":     "SG.test",
		"SENDGRID_FROM_EMAIL":  "alerts@nerva.example.com",
		"SMS_PROVIDER":         "twilio",
		"WHATSAPP_PROVIDER":    "twilio",
		"TWILIO_ACCOUNT_SID":   "AC123",
		"TWILIO_AUTH_TOKEN":    "token",
		"TWILIO_FROM_PHONE":    "+15555550199",
		"TEAMS_WEBHOOK_URL":    "https://example.webhook.office.com/hook",
		"SLACK_WEBHOOK_URL":    "https://hooks.slack.com/services/T/B/X",
		"WEBHOOK_RETRY_LIMIT":  "1",
	})

	channels, err := BuildChannels(cfg, nil)
	require.NoError(t, err)

	got := transportsByChannel(channels)
	assert.Equal(t, "sendgrid", got[model.ChannelEmail].TransportName())
	assert.Equal(t, "twilio", got[model.ChannelSMS].TransportName())
	assert.Equal(t, "twilio", got[model.ChannelWhatsApp].TransportName())
	assert.Equal(t, "webhook", got[model.ChannelTeams].TransportName())
}

func TestBuildChannels_InvalidMode(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.Dispatch.Mode = "staging"

	_, err := BuildChannels(cfg, nil)
	require.Error(t, err)
}
