//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"time"
)

// DeliveryOutcome is the result of one channel attempt within a dispatch.
type DeliveryOutcome struct {
	Channel   Channel       `json:"channel"`
	Success   bool          `json:"success"`
	MessageID string        `json:"messageId,omitempty"`
	Elapsed   time.Duration `json:"-"`
	Recipient string        `json:"recipient"`
	Error     string        `json:"error,omitempty"`
	ErrorCode string        `json:"errorCode,omitempty"`
	Transport string        `json:"transport,omitempty"`
	DemoMode  bool          `json:"demoMode"`
}

type deliveryOutcomeJSON struct {
	deliveryOutcomeAlias
	ElapsedMs int64 `json:"deliveryTime"`
}

type deliveryOutcomeAlias DeliveryOutcome

// MarshalJSON encodes Elapsed as integer milliseconds.
func (o DeliveryOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(deliveryOutcomeJSON{
		deliveryOutcomeAlias: deliveryOutcomeAlias(o),
		ElapsedMs:            o.Elapsed.Milliseconds(),
	})
}

// UnmarshalJSON decodes the millisecond form produced by MarshalJSON.
func (o *DeliveryOutcome) UnmarshalJSON(data []byte) error {
	var aux deliveryOutcomeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = DeliveryOutcome(aux.deliveryOutcomeAlias)
	o.Elapsed = time.Duration(aux.ElapsedMs) * time.Millisecond
	return nil
}

// DeliveryReport aggregates every channel outcome of one dispatch.
type DeliveryReport struct {
	AlertID        string                      `json:"alertId"`
	Timestamp      time.Time                   `json:"timestamp"`
	Shipment       Shipment                    `json:"shipment"`
	Channels       map[Channel]DeliveryOutcome `json:"channels"`
	OverallSuccess bool                        `json:"overallSuccess"`
	DeliveryTime   time.Duration               `json:"-"`
}

type deliveryReportAlias DeliveryReport

type deliveryReportJSON struct {
	deliveryReportAlias
	DeliveryTimeMs int64 `json:"deliveryTime"`
}

// MarshalJSON encodes DeliveryTime as integer milliseconds.
func (r DeliveryReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(deliveryReportJSON{
		deliveryReportAlias: deliveryReportAlias(r),
		DeliveryTimeMs:      r.DeliveryTime.Milliseconds(),
	})
}

// UnmarshalJSON decodes the millisecond form produced by MarshalJSON.
func (r *DeliveryReport) UnmarshalJSON(data []byte) error {
	var aux deliveryReportJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = DeliveryReport(aux.deliveryReportAlias)
	r.DeliveryTime = time.Duration(aux.DeliveryTimeMs) * time.Millisecond
	return nil
}

// Clone returns a deep copy so retained log entries cannot be mutated by callers.
func (r DeliveryReport) Clone() DeliveryReport {
	out := r
	if r.Channels != nil {
		out.Channels = make(map[Channel]DeliveryOutcome, len(r.Channels))
		for ch, o := range r.Channels {
			out.Channels[ch] = o
		}
	}
	return out
}

// FailedChannels returns the channels whose outcome was not successful, in dispatch order.
func (r DeliveryReport) FailedChannels() []Channel {
	var out []Channel
	for _, ch := range Channels {
		if o, ok := r.Channels[ch]; ok && !o.Success {
			out = append(out, ch)
		}
	}
	return out
}

// Status is a snapshot of the dispatcher state.
type Status struct {
	Initialized     bool                     `json:"initialized"`
	TotalAlertsSent int                      `json:"totalAlertsSent"`
	LastAlert       *DeliveryReport          `json:"lastAlert"`
	Connectivity    map[Channel]Connectivity `json:"connectivity"`
	Mode            Mode                     `json:"mode"`
}
