package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
	"github.com/nerva-logistics/alertdispatch/internal/util"
)

// TwilioBaseURL is the public Twilio REST API root.
const TwilioBaseURL = "https://api.twilio.com"

const whatsappPrefix = "whatsapp:"

// TwilioConfig configures the Twilio Messages deliverer.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// From is the sending number. For WhatsApp it is prefixed with "whatsapp:" if needed.
	From string
	// WhatsApp switches addressing to the WhatsApp sandbox/business sender.
	WhatsApp   bool
	BaseURL    string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Twilio delivers SMS or WhatsApp messages through the Twilio Messages API.
type Twilio struct {
	accountSID string
	authToken  string
	from       string
	whatsapp   bool
	baseURL    string
	retryLimit int
	client     *http.Client
}

var _ Deliverer = (*Twilio)(nil)

// NewTwilio constructs a Twilio deliverer.
func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	sid := strings.TrimSpace(cfg.AccountSID)
	token := strings.TrimSpace(cfg.AuthToken)
	if sid == "" || token == "" {
		return nil, errors.New("twilio account sid and auth token are required")
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, errors.New("twilio sender number is required")
	}
	if cfg.WhatsApp {
		from = whatsappAddress(from)
	}
	return &Twilio{
		accountSID: sid,
		authToken:  token,
		from:       from,
		whatsapp:   cfg.WhatsApp,
		baseURL:    strings.TrimRight(util.Fallback(cfg.BaseURL, TwilioBaseURL), "/"),
		retryLimit: max(cfg.RetryLimit, 0),
		client:     newHTTPClient(cfg.Client, cfg.Timeout),
	}, nil
}

// Name implements Deliverer.
func (t *Twilio) Name() string { return "twilio" }

func (t *Twilio) accountURL() string {
	return t.baseURL + "/2010-04-01/Accounts/" + url.PathEscape(t.accountSID)
}

// Check fetches the account resource to verify credentials.
func (t *Twilio) Check(ctx context.Context) model.Connectivity {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.accountURL()+".json", http.NoBody)
	if err != nil {
		return model.ConnectivityUnreachable
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	if probe(ctx, t.client, req) {
		return model.ConnectivityConnected
	}
	return model.ConnectivityUnreachable
}

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// Deliver creates a message and returns its SID.
func (t *Twilio) Deliver(ctx context.Context, env Envelope) (Receipt, error) {
	to := strings.TrimSpace(env.Recipient)
	if t.whatsapp {
		to = whatsappAddress(to)
	}
	form := url.Values{
		"To":   {to},
		"From": {t.from},
		"Body": {env.Message.Text},
	}
	encoded := form.Encode()

	var raw []byte
	err := withRetry(ctx, t.retryLimit, "twilio", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.accountURL()+"/Messages.json",
			strings.NewReader(encoded))
		if err != nil {
			return fmt.Errorf("create twilio request: %w", err)
		}
		req.SetBasicAuth(t.accountSID, t.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := do(t.client, req, "twilio")
		if err != nil {
			return err
		}
		raw = resp.Body
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	var msg twilioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Receipt{}, apperrors.TransportFailure("decode twilio response", err)
	}
	if msg.SID == "" {
		return Receipt{}, apperrors.TransportFailuref("twilio response missing message sid")
	}
	return Receipt{MessageID: msg.SID}, nil
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}
