// Package escalation raises an incident when a dispatch fails a critical channel.
package escalation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the escalation service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
	// Critical restricts escalated channels to this set. Empty means every failed channel.
	Critical model.ChannelSet
	Now      func() time.Time
}

// Service fans escalation payloads out to every registered sink.
type Service struct {
	logger   *slog.Logger
	sinks    []SinkRegistration
	critical model.ChannelSet
	now      func() time.Time
}

// NewService constructs an escalation service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "escalation")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{Name: name, Sink: entry.Sink})
	}

	return &Service{
		logger:   logger,
		sinks:    sinks,
		critical: opts.Critical,
		now:      now,
	}
}

// Enabled reports whether the service has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}

// Escalate sends the report's failures to all sinks and waits for them to finish.
// Sink errors are logged, never returned.
func (s *Service) Escalate(ctx context.Context, report model.DeliveryReport) {
	if len(s.sinks) == 0 {
		return
	}

	payload, ok := s.payload(report)
	if !ok {
		return
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendEscalation(ctx, payload); err != nil {
				s.logger.ErrorContext(ctx, "escalation delivery error",
					"sink", entry.Name,
					"alert_id", payload.AlertID,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

func (s *Service) payload(report model.DeliveryReport) (notify.EscalationPayload, bool) {
	var failed []string
	errs := make(map[string]string)
	for _, ch := range report.FailedChannels() {
		if len(s.critical) > 0 && !s.critical.Contains(ch) {
			continue
		}
		failed = append(failed, ch.String())
		errs[ch.String()] = report.Channels[ch].Error
	}
	if len(failed) == 0 {
		return notify.EscalationPayload{}, false
	}

	occurred := report.Timestamp
	if occurred.IsZero() {
		occurred = s.now()
	}

	return notify.EscalationPayload{
		AlertID:        report.AlertID,
		AWB:            report.Shipment.AWB,
		Client:         report.Shipment.Client,
		Priority:       report.Shipment.Priority,
		FailedChannels: failed,
		Errors:         errs,
		Severity:       notify.SeverityCritical,
		OccurredAt:     occurred.UTC(),
	}, true
}
