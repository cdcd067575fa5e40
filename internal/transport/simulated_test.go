package transport

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
)

var messageIDPattern = regexp.MustCompile(`^MSG_\d+_[0-9a-z]{8}$`)

func TestSimulated_Success(t *testing.T) {
	s := NewSimulated(SimulatedConfig{SuccessRate: 1, Delay: 5 * time.Millisecond})

	start := time.Now()
	receipt, err := s.Deliver(context.Background(), Envelope{Channel: model.ChannelEmail})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.Regexp(t, messageIDPattern, receipt.MessageID)
	assert.Equal(t, model.ConnectivitySimulated, s.Check(context.Background()))
	assert.Equal(t, "simulated", s.Name())
}

func TestSimulated_Failure(t *testing.T) {
	s := NewSimulated(SimulatedConfig{Provider: "Twilio SMS", Rand: func() float64 { return 0.99 }})

	_, err := s.Deliver(context.Background(), Envelope{Channel: model.ChannelSMS})
	require.Error(t, err)
	assert.True(t, apperrors.IsSimulatedFailure(err))
	assert.Contains(t, err.Error(), "Twilio SMS")
}

func TestSimulated_SuccessRateBoundary(t *testing.T) {
	s := NewSimulated(SimulatedConfig{SuccessRate: DefaultSuccessRate, Rand: func() float64 { return 0.94 }})
	_, err := s.Deliver(context.Background(), Envelope{})
	require.NoError(t, err)

	s = NewSimulated(SimulatedConfig{SuccessRate: DefaultSuccessRate, Rand: func() float64 { return 0.95 }})
	_, err = s.Deliver(context.Background(), Envelope{})
	require.Error(t, err)
}

func TestSimulated_ClampsRate(t *testing.T) {
	assert.InDelta(t, 1.0, NewSimulated(SimulatedConfig{SuccessRate: 7}).successRate, 0)
	assert.InDelta(t, 0.0, NewSimulated(SimulatedConfig{SuccessRate: -1}).successRate, 0)
}

func TestSimulated_HonoursContext(t *testing.T) {
	s := NewSimulated(SimulatedConfig{SuccessRate: 1, Delay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Deliver(ctx, Envelope{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewMessageID(t *testing.T) {
	now := time.UnixMilli(1709294400123)
	id := NewMessageID(now)
	assert.Regexp(t, messageIDPattern, id)
	assert.Contains(t, id, "MSG_1709294400123_")
	assert.NotEqual(t, id, NewMessageID(now))
}
