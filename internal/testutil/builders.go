// Package testutil provides testing utilities and helpers for the alert dispatcher.
package testutil

import (
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// AlertRequestBuilder provides a fluent interface for building AlertRequest values for testing.
type AlertRequestBuilder struct {
	req model.AlertRequest
}

// NewAlertRequest starts from the reference Acme Corp scenario with email and sms recipients.
func NewAlertRequest() *AlertRequestBuilder {
	return &AlertRequestBuilder{req: SampleAlert()}
}

// SampleAlert returns the reference scenario: a high-value Acme Corp shipment delayed by storms at ORD.
func SampleAlert() model.AlertRequest {
	return model.AlertRequest{
		Shipment: model.Shipment{
			AWB:         "176-12345678",
			Client:      "Acme Corp",
			Description: "Semiconductor manufacturing equipment",
			Value:       "$100,000",
			Route:       "LAX-ORD-JFK",
			Priority:    "Critical",
			Custody:     "LAX Ground Handler -> AA Cargo -> ORD Transfer",
			NewETA:      "15:30 EST",
		},
		Weather: model.WeatherEvent{
			Description: "Severe thunderstorms with wind shear",
			Cause:       "Thunderstorms at ORD",
			Impact:      "delayed 4 hours",
		},
		Priority: model.AlertPriorityHigh,
		Alternatives: []model.Alternative{
			{Route: "LAX-DFW-JFK", Cost: "+$2,400", Description: "arrives 2 hours later"},
			{Route: "Hold at LAX", Cost: "$0", Description: "depart next morning"},
		},
		Recipients: model.Recipients{
			model.ChannelEmail: "logistics@acme.example.com",
			model.ChannelSMS:   "+15555550100",
		},
	}
}

// WithRecipient sets the recipient for a channel.
func (b *AlertRequestBuilder) WithRecipient(ch model.Channel, recipient string) *AlertRequestBuilder {
	recipients := make(model.Recipients, len(b.req.Recipients)+1)
	for k, v := range b.req.Recipients {
		recipients[k] = v
	}
	recipients[ch] = recipient
	b.req.Recipients = recipients
	return b
}

// WithAllChannels adds a recipient for every channel.
func (b *AlertRequestBuilder) WithAllChannels() *AlertRequestBuilder {
	return b.
		WithRecipient(model.ChannelEmail, "logistics@acme.example.com").
		WithRecipient(model.ChannelSMS, "+15555550100").
		WithRecipient(model.ChannelTeams, "#freight-ops").
		WithRecipient(model.ChannelSlack, "#alerts").
		WithRecipient(model.ChannelWhatsApp, "+15555550101")
}

// WithoutRecipients clears every recipient.
func (b *AlertRequestBuilder) WithoutRecipients() *AlertRequestBuilder {
	b.req.Recipients = model.Recipients{}
	return b
}

// WithPriority sets the alert priority.
func (b *AlertRequestBuilder) WithPriority(p model.AlertPriority) *AlertRequestBuilder {
	b.req.Priority = p
	return b
}

// WithClient sets the shipment client.
func (b *AlertRequestBuilder) WithClient(client string) *AlertRequestBuilder {
	b.req.Shipment.Client = client
	return b
}

// WithAWB sets the air waybill number.
func (b *AlertRequestBuilder) WithAWB(awb string) *AlertRequestBuilder {
	b.req.Shipment.AWB = awb
	return b
}

// Build returns the request.
func (b *AlertRequestBuilder) Build() model.AlertRequest {
	return b.req
}
