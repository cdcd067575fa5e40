//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Documented maximum field lengths. Renderers rely on these to keep SMS output within budget.
const (
	MaxClientLen = 40
	MaxValueLen  = 20
	MaxCauseLen  = 40
	MaxImpactLen = 40
	MaxETALen    = 20
	MaxAWBLen    = 20
)

// AlertPriority drives subject lines and colour coding in rendered messages.
type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "high"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityLow    AlertPriority = "low"
)

// Valid returns true if the priority is recognised.
func (p AlertPriority) Valid() bool {
	switch p {
	case AlertPriorityHigh, AlertPriorityMedium, AlertPriorityLow:
		return true
	default:
		return false
	}
}

// OrDefault returns the priority, falling back to medium when empty.
func (p AlertPriority) OrDefault() AlertPriority {
	if strings.TrimSpace(string(p)) == "" {
		return AlertPriorityMedium
	}
	return p
}

// Shipment describes the cargo affected by an alert.
type Shipment struct {
	AWB         string `json:"awb"                   validate:"required,max=20"`
	Client      string `json:"client"                validate:"required,max=40"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"       validate:"max=20"`
	Route       string `json:"route,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Custody     string `json:"custody,omitempty"`
	NewETA      string `json:"new_eta,omitempty"     validate:"max=20"`
}

// WeatherEvent describes the operational event that triggered the alert.
type WeatherEvent struct {
	Description string `json:"description"      validate:"required"`
	Cause       string `json:"cause,omitempty"  validate:"max=40"`
	Impact      string `json:"impact,omitempty" validate:"max=40"`
}

// Alternative is an optional re-routing option offered to the recipient.
type Alternative struct {
	Route       string `json:"route"`
	Cost        string `json:"cost,omitempty"`
	Description string `json:"description,omitempty"`
}

// Recipients maps a channel to its recipient identifier (address, phone number, webhook name).
type Recipients map[Channel]string

// Requested returns the channels that carry a non-blank recipient, in dispatch order.
func (r Recipients) Requested() []Channel {
	out := make([]Channel, 0, len(r))
	for _, ch := range Channels {
		if strings.TrimSpace(r[ch]) != "" {
			out = append(out, ch)
		}
	}
	return out
}

// AlertRequest is the input to a dispatch. It is treated as immutable once constructed.
type AlertRequest struct {
	Shipment     Shipment      `json:"shipment"`
	Weather      WeatherEvent  `json:"weather"`
	Priority     AlertPriority `json:"priority,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	Recipients   Recipients    `json:"recipients"`
}

// ErrUnknownRecipientChannel is returned when the recipient map names an unrecognised channel.
var ErrUnknownRecipientChannel = errors.New("unknown recipient channel")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the request for structural problems.
func (r AlertRequest) Validate() error {
	if err := structValidator().Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &FieldError{Field: fe.Namespace(), Tag: fe.Tag(), Param: fe.Param()}
		}
		return err
	}

	if p := r.Priority; p != "" && !p.Valid() {
		return &FieldError{Field: "AlertRequest.Priority", Tag: "oneof", Param: "high medium low"}
	}

	var unknown []string
	for ch := range r.Recipients {
		if !ch.Valid() {
			unknown = append(unknown, string(ch))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownRecipientChannel, strings.Join(unknown, ", "))
	}
	return nil
}

// FieldError reports the first failing validation rule of a request.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
}
