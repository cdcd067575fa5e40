// Package render turns an alert request into channel-specific message bodies.
// Renderers are pure: given the same request and Context they produce identical output.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// DefaultBrandName is used when no brand is configured.
const DefaultBrandName = "Nerva Supply Chain Intelligence"

// Context carries the per-dispatch values renderers need beyond the request itself.
type Context struct {
	AlertID      string
	Timestamp    time.Time
	DashboardURL string
	ContactPhone string
	BrandName    string
}

func (c Context) brand() string {
	if strings.TrimSpace(c.BrandName) == "" {
		return DefaultBrandName
	}
	return c.BrandName
}

func (c Context) timestamp() string {
	return c.Timestamp.UTC().Format(time.RFC3339)
}

// alertURL returns the dashboard deep link for the alert, or "" when no dashboard is configured.
func (c Context) alertURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.DashboardURL), "/")
	if base == "" {
		return ""
	}
	if c.AlertID == "" {
		return base
	}
	return base + "/alerts/" + c.AlertID
}

// Message is a rendered alert ready to hand to a transport.
type Message struct {
	Channel model.Channel
	// Subject is set for email only.
	Subject string
	// Text is the plain-text body (email alternative, SMS, WhatsApp).
	Text string
	// HTML is set for email only.
	HTML string
	// Payload is the structured JSON body for webhook channels.
	Payload any
}

// Renderer produces the message for one channel.
type Renderer interface {
	Render(req model.AlertRequest, rc Context) (Message, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(req model.AlertRequest, rc Context) (Message, error)

// Render implements Renderer.
func (f RendererFunc) Render(req model.AlertRequest, rc Context) (Message, error) {
	return f(req, rc)
}

// For returns the renderer for a channel.
func For(ch model.Channel) (Renderer, error) {
	switch ch {
	case model.ChannelEmail:
		return RendererFunc(Email), nil
	case model.ChannelSMS:
		return RendererFunc(func(req model.AlertRequest, rc Context) (Message, error) {
			return Message{Channel: model.ChannelSMS, Text: SMS(req, rc)}, nil
		}), nil
	case model.ChannelTeams:
		return RendererFunc(func(req model.AlertRequest, rc Context) (Message, error) {
			return Message{Channel: model.ChannelTeams, Payload: Teams(req, rc)}, nil
		}), nil
	case model.ChannelSlack:
		return RendererFunc(func(req model.AlertRequest, rc Context) (Message, error) {
			return Message{Channel: model.ChannelSlack, Payload: Slack(req, rc)}, nil
		}), nil
	case model.ChannelWhatsApp:
		return RendererFunc(func(req model.AlertRequest, rc Context) (Message, error) {
			return Message{Channel: model.ChannelWhatsApp, Text: WhatsApp(req, rc)}, nil
		}), nil
	default:
		return nil, fmt.Errorf("no renderer for channel %q", ch)
	}
}
