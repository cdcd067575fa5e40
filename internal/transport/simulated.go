package transport

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
)

// DefaultSuccessRate is the probability that a simulated delivery succeeds.
const DefaultSuccessRate = 0.95

// DefaultDelays are the simulated provider latencies per channel.
var DefaultDelays = map[model.Channel]time.Duration{
	model.ChannelEmail:    1500 * time.Millisecond,
	model.ChannelSMS:      2000 * time.Millisecond,
	model.ChannelTeams:    2500 * time.Millisecond,
	model.ChannelSlack:    1800 * time.Millisecond,
	model.ChannelWhatsApp: 3000 * time.Millisecond,
}

// SimulatedConfig configures a Simulated deliverer.
type SimulatedConfig struct {
	// Provider is the display name of the provider being simulated (e.g. "SendGrid").
	Provider string
	// Delay is how long each delivery takes.
	Delay time.Duration
	// SuccessRate is clamped to [0,1].
	SuccessRate float64
	// Rand returns values in [0,1); defaults to math/rand.
	Rand func() float64
}

// Simulated stands in for a provider in demo mode: it waits, then succeeds with a fixed probability.
type Simulated struct {
	provider    string
	delay       time.Duration
	successRate float64
	rand        func() float64
}

var _ Deliverer = (*Simulated)(nil)

// NewSimulated builds a simulated deliverer.
func NewSimulated(cfg SimulatedConfig) *Simulated {
	rate := cfg.SuccessRate
	switch {
	case rate < 0:
		rate = 0
	case rate > 1:
		rate = 1
	}
	r := cfg.Rand
	if r == nil {
		r = rand.Float64
	}
	return &Simulated{
		provider:    strings.TrimSpace(cfg.Provider),
		delay:       max(cfg.Delay, 0),
		successRate: rate,
		rand:        r,
	}
}

// Name implements Deliverer.
func (s *Simulated) Name() string { return "simulated" }

// Check implements Deliverer.
func (s *Simulated) Check(context.Context) model.Connectivity {
	return model.ConnectivitySimulated
}

// Deliver waits for the configured delay and rolls for success.
func (s *Simulated) Deliver(ctx context.Context, env Envelope) (Receipt, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}

	if s.rand() >= s.successRate {
		return Receipt{}, apperrors.SimulatedFailure(
			fmt.Sprintf("simulated %s delivery failed", providerLabel(s.provider, env.Channel)),
		)
	}
	return Receipt{MessageID: NewMessageID(time.Now())}, nil
}

// NewMessageID returns an id of the form MSG_<unix-ms>_<8 lowercase alphanumerics>.
func NewMessageID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("MSG_%d_%s", now.UnixMilli(), suffix)
}

func providerLabel(provider string, ch model.Channel) string {
	if provider != "" {
		return provider
	}
	return string(ch)
}
