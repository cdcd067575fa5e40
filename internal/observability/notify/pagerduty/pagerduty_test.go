package pagerduty

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerva-logistics/alertdispatch/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestBuildEventDefaults(t *testing.T) {
	client, err := NewClient(Config{RoutingKey: "key", Timeout: time.Second})
	require.NoError(t, err)

	ev := client.buildEvent(notify.EscalationPayload{
		AlertID:        "ALT_1709294400000_ABCDE",
		AWB:            "176-12345678",
		Client:         "Acme Corp",
		FailedChannels: []string{"sms"},
		Errors:         map[string]string{"sms": "Twilio integration not implemented"},
	})

	assert.Equal(t, "trigger", ev.EventAction)
	assert.Equal(t, "alert:ALT_1709294400000_ABCDE", ev.DedupKey)
	assert.Equal(t, notify.SeverityCritical, ev.Payload.Severity)
	assert.Equal(t, "alertdispatch", ev.Payload.Source)
	assert.Equal(t, "alert-delivery", ev.Payload.Component)
	assert.Contains(t, ev.Payload.Summary, "Acme Corp")
	assert.Contains(t, ev.Payload.Summary, "sms")
	assert.Equal(t, "Twilio integration not implemented", ev.Payload.CustomDetails["error_sms"])
	assert.NotEmpty(t, ev.Payload.Timestamp)
}

func TestSendEscalation_PostsEvent(t *testing.T) {
	var got event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "rk", Endpoint: srv.URL})
	require.NoError(t, err)

	err = client.SendEscalation(context.Background(), notify.EscalationPayload{AlertID: "ALT_1_AAAAA"})
	require.NoError(t, err)
	assert.Equal(t, "rk", got.RoutingKey)
	assert.Equal(t, "alert:ALT_1_AAAAA", got.DedupKey)
}

func TestSendEscalation_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(Config{RoutingKey: "rk", Endpoint: srv.URL, RetryLimit: 1})
	require.NoError(t, err)

	err = client.SendEscalation(context.Background(), notify.EscalationPayload{AlertID: "ALT_1_AAAAA"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pagerduty api 429")
	assert.Equal(t, int32(2), calls.Load())
}
