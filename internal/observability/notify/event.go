package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
)

// EscalationPayload captures the data emitted when a dispatch fails a critical channel.
type EscalationPayload struct {
	AlertID        string
	AWB            string
	Client         string
	Priority       string
	FailedChannels []string
	Errors         map[string]string
	Severity       string
	OccurredAt     time.Time
}

// Sink describes a destination capable of consuming escalations.
type Sink interface {
	SendEscalation(ctx context.Context, payload EscalationPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload EscalationPayload) error

// SendEscalation implements the Sink interface.
func (f SinkFunc) SendEscalation(ctx context.Context, payload EscalationPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
