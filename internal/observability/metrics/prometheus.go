package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

const namespace = "alertdispatch"

// Prometheus records delivery metrics into its own registry and serves them for scraping.
type Prometheus struct {
	registry *prometheus.Registry

	deliveries       *prometheus.CounterVec
	deliveryDuration *prometheus.HistogramVec
	dispatches       *prometheus.CounterVec
	dispatchDuration prometheus.Histogram

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus builds a collector set bound to a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_deliveries_total",
			Help:      "Channel delivery attempts by channel, transport and result.",
		}, []string{"channel", "transport", "result", "error_class"}),
		deliveryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "channel_delivery_duration_seconds",
			Help:      "Duration of a single channel delivery attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5, 10},
		}, []string{"channel", "transport"}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Completed dispatches by overall result.",
		}, []string{"result"}),
		dispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Wall clock time from dispatch start to join.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"path", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
	}
}

// ObserveDelivery implements Recorder.
func (p *Prometheus) ObserveDelivery(o model.DeliveryOutcome) {
	if p == nil {
		return
	}
	errClass := ""
	if !o.Success {
		errClass = o.ErrorCode
	}
	p.deliveries.WithLabelValues(o.Channel.String(), o.Transport, resultOf(o.Success), errClass).Inc()
	p.deliveryDuration.WithLabelValues(o.Channel.String(), o.Transport).Observe(o.Elapsed.Seconds())
}

// ObserveDispatch implements Recorder.
func (p *Prometheus) ObserveDispatch(rep model.DeliveryReport) {
	if p == nil {
		return
	}
	p.dispatches.WithLabelValues(resultOf(rep.OverallSuccess)).Inc()
	p.dispatchDuration.Observe(rep.DeliveryTime.Seconds())
}

// Registry exposes the underlying registry for tests and custom collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
