// Package transport delivers rendered alerts to external providers.
//
// A Channel binds one model.Channel to its renderer and a Deliverer. The Deliverer
// variant (simulated, webhook, sendgrid, twilio, unimplemented) is chosen once at
// configuration time; Channel.Send converts every failure into a DeliveryOutcome.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
	obserrors "github.com/nerva-logistics/alertdispatch/internal/observability/errors"
	"github.com/nerva-logistics/alertdispatch/internal/render"
)

// Envelope is a rendered message addressed to one recipient.
type Envelope struct {
	AlertID   string
	Channel   model.Channel
	Recipient string
	Priority  model.AlertPriority
	Message   render.Message
}

// Receipt acknowledges a successful delivery.
type Receipt struct {
	MessageID string
}

// Deliverer sends envelopes through one provider.
type Deliverer interface {
	// Name identifies the variant in outcomes, logs and metrics.
	Name() string
	// Check classifies the provider's reachability without sending a message.
	Check(ctx context.Context) model.Connectivity
	// Deliver sends the envelope, returning a provider message id on success.
	Deliver(ctx context.Context, env Envelope) (Receipt, error)
}

// ChannelOptions configures a Channel.
type ChannelOptions struct {
	Channel   model.Channel
	Renderer  render.Renderer
	Deliverer Deliverer
	Logger    *slog.Logger
}

// Channel renders and delivers alerts for a single channel.
type Channel struct {
	channel   model.Channel
	renderer  render.Renderer
	deliverer Deliverer
	demo      bool
	logger    *slog.Logger
}

// NewChannel binds a channel to its renderer and deliverer.
// When no renderer is given the default renderer for the channel is used.
func NewChannel(opts ChannelOptions) (*Channel, error) {
	if !opts.Channel.Valid() {
		return nil, fmt.Errorf("unknown channel %q", opts.Channel)
	}
	if opts.Deliverer == nil {
		return nil, fmt.Errorf("channel %s: deliverer is required", opts.Channel)
	}

	renderer := opts.Renderer
	if renderer == nil {
		r, err := render.For(opts.Channel)
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	_, demo := opts.Deliverer.(*Simulated)

	return &Channel{
		channel:   opts.Channel,
		renderer:  renderer,
		deliverer: opts.Deliverer,
		demo:      demo,
		logger:    logger.With("component", "transport", "channel", string(opts.Channel)),
	}, nil
}

// Channel returns the bound channel.
func (c *Channel) Channel() model.Channel { return c.channel }

// TransportName returns the name of the underlying deliverer.
func (c *Channel) TransportName() string { return c.deliverer.Name() }

// Demo reports whether the channel uses the simulated provider.
func (c *Channel) Demo() bool { return c.demo }

// Check runs the deliverer's connectivity check.
func (c *Channel) Check(ctx context.Context) model.Connectivity {
	return c.deliverer.Check(ctx)
}

// Send renders and delivers the alert. It never returns an error or panics:
// every failure is recorded on the returned outcome.
func (c *Channel) Send(ctx context.Context, req model.AlertRequest, rc render.Context) (out model.DeliveryOutcome) {
	start := time.Now()
	out = model.DeliveryOutcome{
		Channel:   c.channel,
		Recipient: req.Recipients[c.channel],
		Transport: c.deliverer.Name(),
		DemoMode:  c.demo,
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "transport panicked", "alert_id", rc.AlertID, "panic", r)
			fail(&out, apperrors.Internalf("%s transport panicked: %v", c.channel, r))
		}
		out.Elapsed = time.Since(start)
	}()

	msg, err := c.renderer.Render(req, rc)
	if err != nil {
		fail(&out, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "render %s message", c.channel))
		return out
	}
	msg.Channel = c.channel

	receipt, err := c.deliverer.Deliver(ctx, Envelope{
		AlertID:   rc.AlertID,
		Channel:   c.channel,
		Recipient: out.Recipient,
		Priority:  req.Priority.OrDefault(),
		Message:   msg,
	})
	if err != nil {
		if apperrors.GetCode(err) == "" {
			if ctxErr := apperrors.FromContext(err, fmt.Sprintf("%s delivery abandoned", c.channel)); ctxErr != nil {
				err = ctxErr
			}
		}
		fail(&out, err)
		return out
	}

	out.Success = true
	out.MessageID = receipt.MessageID
	return out
}

func fail(out *model.DeliveryOutcome, err error) {
	out.Success = false
	out.MessageID = ""
	out.Error = err.Error()
	out.ErrorCode = obserrors.Classify(err)
}
