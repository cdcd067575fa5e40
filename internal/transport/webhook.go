package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
)

// WebhookConfig configures a chat webhook deliverer.
type WebhookConfig struct {
	// Service is the short service name used in message ids and errors ("teams", "slack").
	Service    string
	URL        string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Webhook posts the rendered JSON payload to an incoming-webhook URL.
type Webhook struct {
	service    string
	url        string
	retryLimit int
	client     *http.Client
}

var _ Deliverer = (*Webhook)(nil)

// NewWebhook constructs a webhook deliverer. An empty URL yields a deliverer
// that reports not_configured and fails every delivery.
func NewWebhook(cfg WebhookConfig) (*Webhook, error) {
	service := strings.ToLower(strings.TrimSpace(cfg.Service))
	if service == "" {
		return nil, errors.New("webhook service name is required")
	}
	return &Webhook{
		service:    service,
		url:        strings.TrimSpace(cfg.URL),
		retryLimit: max(cfg.RetryLimit, 0),
		client:     newHTTPClient(cfg.Client, cfg.Timeout),
	}, nil
}

// Name implements Deliverer.
func (w *Webhook) Name() string { return "webhook" }

// Check reports whether a webhook URL is configured. Webhooks have no side-effect free probe.
func (w *Webhook) Check(context.Context) model.Connectivity {
	if w.url == "" {
		return model.ConnectivityNotConfigured
	}
	return model.ConnectivityConnected
}

// Deliver posts the payload, retrying server errors with linear backoff.
func (w *Webhook) Deliver(ctx context.Context, env Envelope) (Receipt, error) {
	if w.url == "" {
		return Receipt{}, apperrors.TransportFailuref("%s webhook url is not configured", w.service)
	}

	payload := env.Message.Payload
	if payload == nil {
		payload = map[string]string{"text": env.Message.Text}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s payload", w.service)
	}

	err = withRetry(ctx, w.retryLimit, w.service, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create %s request: %w", w.service, err)
		}
		req.Header.Set("Content-Type", "application/json")
		_, err = do(w.client, req, w.service)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{MessageID: fmt.Sprintf("%s_%d", w.service, time.Now().UnixMilli())}, nil
}
