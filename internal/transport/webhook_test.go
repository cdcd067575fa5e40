package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
	"github.com/nerva-logistics/alertdispatch/internal/render"
)

func TestWebhook_PostsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte("1"))
	}))
	defer srv.Close()

	w, err := NewWebhook(WebhookConfig{Service: "teams", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, model.ConnectivityConnected, w.Check(context.Background()))

	card := render.Teams(testRequest(), testContext())
	receipt, err := w.Deliver(context.Background(), Envelope{
		Channel: model.ChannelTeams,
		Message: render.Message{Payload: card},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.MessageID, "teams_"))
	assert.Equal(t, "MessageCard", got["@type"])
}

func TestWebhook_TextFallback(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w, err := NewWebhook(WebhookConfig{Service: "slack", URL: srv.URL})
	require.NoError(t, err)

	_, err = w.Deliver(context.Background(), Envelope{Message: render.Message{Text: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", got["text"])
}

func TestWebhook_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	w, err := NewWebhook(WebhookConfig{Service: "slack", URL: srv.URL, RetryLimit: 2})
	require.NoError(t, err)

	receipt, err := w.Deliver(context.Background(), Envelope{Message: render.Message{Text: "x"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.MessageID, "slack_"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestWebhook_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	w, err := NewWebhook(WebhookConfig{Service: "slack", URL: srv.URL, RetryLimit: 3})
	require.NoError(t, err)

	_, err = w.Deliver(context.Background(), Envelope{Message: render.Message{Text: "x"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportFailure(err))
	assert.Contains(t, err.Error(), "invalid_payload")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhook_NotConfigured(t *testing.T) {
	w, err := NewWebhook(WebhookConfig{Service: "teams"})
	require.NoError(t, err)
	assert.Equal(t, model.ConnectivityNotConfigured, w.Check(context.Background()))

	_, err = w.Deliver(context.Background(), Envelope{})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransportFailure(err))

	_, err = NewWebhook(WebhookConfig{})
	require.Error(t, err)
}

func TestWebhook_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	w, err := NewWebhook(WebhookConfig{Service: "teams", URL: srv.URL, RetryLimit: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = w.Deliver(ctx, Envelope{Message: render.Message{Text: "x"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
}
