package escalation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/observability/notify"
)

func failedReport() model.DeliveryReport {
	return model.DeliveryReport{
		AlertID:  "ALT_1709294400000_ABCDE",
		Shipment: model.Shipment{AWB: "176-12345678", Client: "Acme Corp", Priority: "Critical"},
		Channels: map[model.Channel]model.DeliveryOutcome{
			model.ChannelEmail: {Channel: model.ChannelEmail, Success: false, Error: "SendGrid integration not implemented"},
			model.ChannelSMS:   {Channel: model.ChannelSMS, Success: true},
			model.ChannelSlack: {Channel: model.ChannelSlack, Success: false, Error: "slack delivery failed"},
		},
	}
}

func TestServiceEscalate(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var mu sync.Mutex
	var received []notify.EscalationPayload
	svc := NewService(Options{
		Critical: model.NewChannelSet(model.ChannelEmail, model.ChannelSMS),
		Now:      func() time.Time { return fixed },
		Sinks: []SinkRegistration{
			{
				Name: "capture",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.EscalationPayload) error {
					mu.Lock()
					defer mu.Unlock()
					received = append(received, payload)
					return nil
				}),
			},
		},
	})

	svc.Escalate(ctx, failedReport())

	if len(received) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(received))
	}
	got := received[0]
	if got.Severity != notify.SeverityCritical {
		t.Fatalf("expected severity critical, got %s", got.Severity)
	}
	if len(got.FailedChannels) != 1 || got.FailedChannels[0] != "email" {
		t.Fatalf("expected only the critical email failure, got %v", got.FailedChannels)
	}
	if got.Errors["email"] != "SendGrid integration not implemented" {
		t.Fatalf("unexpected errors map %v", got.Errors)
	}
	if got.AWB != "176-12345678" || got.Client != "Acme Corp" || got.Priority != "Critical" {
		t.Fatalf("unexpected shipment fields %+v", got)
	}
	if !got.OccurredAt.Equal(fixed) {
		t.Fatalf("expected occurred-at to fall back to clock, got %v", got.OccurredAt)
	}
}

func TestServiceSkipsBestEffortOnlyFailures(t *testing.T) {
	var called bool
	svc := NewService(Options{
		Critical: model.NewChannelSet(model.ChannelEmail, model.ChannelSMS),
		Sinks: []SinkRegistration{
			{Sink: notify.SinkFunc(func(ctx context.Context, payload notify.EscalationPayload) error {
				called = true
				return nil
			})},
		},
	})

	report := failedReport()
	report.Channels[model.ChannelEmail] = model.DeliveryOutcome{Channel: model.ChannelEmail, Success: true}
	svc.Escalate(context.Background(), report)

	if called {
		t.Fatal("expected sink not to be invoked when only best-effort channels failed")
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(Options{Sinks: []SinkRegistration{{Name: "nil"}}})
	if svc.Enabled() {
		t.Fatal("expected Enabled() to be false when no sinks registered")
	}
	svc.Escalate(context.Background(), failedReport())
}

func TestServiceLogsErrors(t *testing.T) {
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Name: "fail",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.EscalationPayload) error {
					return errors.New("boom")
				}),
			},
		},
	})

	svc.Escalate(context.Background(), failedReport())
}
