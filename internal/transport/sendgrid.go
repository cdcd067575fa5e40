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
	"github.com/nerva-logistics/alertdispatch/internal/util"
)

// SendGridBaseURL is the public SendGrid API root.
const SendGridBaseURL = "https://api.sendgrid.com"

// SendGridConfig configures the SendGrid email deliverer.
type SendGridConfig struct {
	APIKey     string
	FromEmail  string
	FromName   string
	BaseURL    string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// SendGrid delivers email through the SendGrid v3 Mail Send API.
type SendGrid struct {
	apiKey     string
	fromEmail  string
	fromName   string
	baseURL    string
	retryLimit int
	client     *http.Client
}

var _ Deliverer = (*SendGrid)(nil)

// NewSendGrid constructs a SendGrid deliverer.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	from := strings.TrimSpace(cfg.FromEmail)
	if from == "" {
		return nil, errors.New("sendgrid from email is required")
	}
	return &SendGrid{
		apiKey:     key,
		fromEmail:  from,
		fromName:   strings.TrimSpace(cfg.FromName),
		baseURL:    strings.TrimRight(util.Fallback(cfg.BaseURL, SendGridBaseURL), "/"),
		retryLimit: max(cfg.RetryLimit, 0),
		client:     newHTTPClient(cfg.Client, cfg.Timeout),
	}, nil
}

// Name implements Deliverer.
func (s *SendGrid) Name() string { return "sendgrid" }

// Check verifies the API key by listing its scopes.
func (s *SendGrid) Check(ctx context.Context) model.Connectivity {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v3/scopes", http.NoBody)
	if err != nil {
		return model.ConnectivityUnreachable
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if probe(ctx, s.client, req) {
		return model.ConnectivityConnected
	}
	return model.ConnectivityUnreachable
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMail struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
	Headers          map[string]string         `json:"headers,omitempty"`
	CustomArgs       map[string]string         `json:"custom_args,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

func (s *SendGrid) buildMail(env Envelope) sendGridMail {
	mail := sendGridMail{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: env.Recipient}}}},
		From:             sendGridAddress{Email: s.fromEmail, Name: s.fromName},
		Subject:          env.Message.Subject,
	}
	// text/plain must precede text/html.
	if env.Message.Text != "" {
		mail.Content = append(mail.Content, sendGridContent{Type: "text/plain", Value: env.Message.Text})
	}
	if env.Message.HTML != "" {
		mail.Content = append(mail.Content, sendGridContent{Type: "text/html", Value: env.Message.HTML})
	}
	if env.Priority == model.AlertPriorityHigh {
		mail.Headers = map[string]string{"X-Priority": "1", "Importance": "high"}
	}
	if env.AlertID != "" {
		mail.CustomArgs = map[string]string{"alert_id": env.AlertID}
	}
	return mail
}

// Deliver sends the email and returns the X-Message-Id assigned by SendGrid.
func (s *SendGrid) Deliver(ctx context.Context, env Envelope) (Receipt, error) {
	body, err := json.Marshal(s.buildMail(env))
	if err != nil {
		return Receipt{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode sendgrid payload")
	}

	var messageID string
	err = withRetry(ctx, s.retryLimit, "sendgrid", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create sendgrid request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := do(s.client, req, "sendgrid")
		if err != nil {
			return err
		}
		messageID = resp.Header.Get("X-Message-Id")
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	if messageID == "" {
		messageID = NewMessageID(time.Now())
	}
	return Receipt{MessageID: messageID}, nil
}
