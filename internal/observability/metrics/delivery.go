package metrics

import (
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder receives delivery lifecycle observations from the dispatcher.
type Recorder interface {
	ObserveDelivery(outcome model.DeliveryOutcome)
	ObserveDispatch(report model.DeliveryReport)
}

// StatsdRecorder emits delivery metrics through a StatsD sink.
type StatsdRecorder struct {
	Sink statsd.Sink
}

var _ Recorder = StatsdRecorder{}

// ObserveDelivery emits one counter and one timing per channel outcome.
func (r StatsdRecorder) ObserveDelivery(o model.DeliveryOutcome) {
	if r.Sink == nil {
		return
	}

	tags := map[string]string{
		"channel":   o.Channel.String(),
		"transport": o.Transport,
		"result":    resultOf(o.Success),
	}
	if !o.Success && o.ErrorCode != "" {
		tags["error_class"] = o.ErrorCode
	}

	r.Sink.Count("channel.delivery", 1, tags)
	if o.Elapsed > 0 {
		r.Sink.Timing("channel.duration", o.Elapsed, CloneTags(tags))
	}
}

// ObserveDispatch emits per-dispatch counters and the end-to-end delivery time.
func (r StatsdRecorder) ObserveDispatch(rep model.DeliveryReport) {
	if r.Sink == nil {
		return
	}

	tags := map[string]string{"result": resultOf(rep.OverallSuccess)}
	r.Sink.Count("dispatch.total", 1, tags)
	r.Sink.Gauge("dispatch.channels", float64(len(rep.Channels)), nil)
	if rep.DeliveryTime > 0 {
		r.Sink.Timing("dispatch.duration", rep.DeliveryTime, CloneTags(tags))
	}
}

// Multi fans observations out to several recorders.
type Multi []Recorder

// ObserveDelivery implements Recorder.
func (m Multi) ObserveDelivery(o model.DeliveryOutcome) {
	for _, r := range m {
		if r != nil {
			r.ObserveDelivery(o)
		}
	}
}

// ObserveDispatch implements Recorder.
func (m Multi) ObserveDispatch(rep model.DeliveryReport) {
	for _, r := range m {
		if r != nil {
			r.ObserveDispatch(rep)
		}
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func resultOf(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultError
}
