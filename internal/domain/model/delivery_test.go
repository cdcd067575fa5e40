//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryReport_JSONMilliseconds(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	report := DeliveryReport{
		AlertID:   "ALT_1709294400000_ABCDE",
		Timestamp: ts,
		Shipment:  Shipment{AWB: "176-12345678", Client: "Acme Corp"},
		Channels: map[Channel]DeliveryOutcome{
			ChannelEmail: {
				Channel:   ChannelEmail,
				Success:   true,
				MessageID: "MSG_1_ABCDEFGH",
				Elapsed:   1500 * time.Millisecond,
				Recipient: "ops@example.com",
				DemoMode:  true,
			},
		},
		OverallSuccess: true,
		DeliveryTime:   1520 * time.Millisecond,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.InDelta(t, 1520, raw["deliveryTime"], 0)
	email := raw["channels"].(map[string]any)["email"].(map[string]any)
	assert.InDelta(t, 1500, email["deliveryTime"], 0)
	assert.Equal(t, "MSG_1_ABCDEFGH", email["messageId"])
	assert.NotContains(t, email, "error")

	var back DeliveryReport
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, report.DeliveryTime, back.DeliveryTime)
	assert.Equal(t, report.Channels[ChannelEmail].Elapsed, back.Channels[ChannelEmail].Elapsed)
	assert.True(t, back.OverallSuccess)
}

func TestDeliveryReport_CloneIsolatesChannels(t *testing.T) {
	orig := DeliveryReport{
		AlertID:  "ALT_1_AAAAA",
		Channels: map[Channel]DeliveryOutcome{ChannelSMS: {Channel: ChannelSMS, Success: true}},
	}
	cp := orig.Clone()
	cp.Channels[ChannelSMS] = DeliveryOutcome{Channel: ChannelSMS, Success: false}
	assert.True(t, orig.Channels[ChannelSMS].Success)
}

func TestDeliveryReport_FailedChannels(t *testing.T) {
	r := DeliveryReport{Channels: map[Channel]DeliveryOutcome{
		ChannelSlack: {Success: false},
		ChannelEmail: {Success: false},
		ChannelSMS:   {Success: true},
	}}
	assert.Equal(t, []Channel{ChannelEmail, ChannelSlack}, r.FailedChannels())
}
