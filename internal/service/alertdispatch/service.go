// Package alertdispatch fans a single alert out to every requested channel and
// records the aggregated outcome.
package alertdispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nerva-logistics/alertdispatch/internal/deliverylog"
	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
	"github.com/nerva-logistics/alertdispatch/internal/observability/metrics"
	"github.com/nerva-logistics/alertdispatch/internal/render"
	"github.com/nerva-logistics/alertdispatch/internal/transport"
)

// DefaultChannelTimeout bounds a single channel attempt.
const DefaultChannelTimeout = 10 * time.Second

// DefaultCritical are the channels whose failure marks a dispatch as unsuccessful.
var DefaultCritical = []model.Channel{model.ChannelEmail, model.ChannelSMS}

// Escalator receives reports whose critical channels failed.
type Escalator interface {
	Escalate(ctx context.Context, report model.DeliveryReport)
}

// EscalatorFunc adapts a function to the Escalator interface.
type EscalatorFunc func(ctx context.Context, report model.DeliveryReport)

// Escalate implements Escalator.
func (f EscalatorFunc) Escalate(ctx context.Context, report model.DeliveryReport) {
	if f != nil {
		f(ctx, report)
	}
}

// Options configures the dispatcher.
type Options struct {
	Channels       []*transport.Channel
	Critical       []model.Channel
	Log            deliverylog.Sink
	Metrics        metrics.Recorder
	Escalator      Escalator
	Mode           model.Mode
	ChannelTimeout time.Duration
	DashboardURL   string
	ContactPhone   string
	BrandName      string
	Logger         *slog.Logger
	// Now stamps reports and ids. Elapsed times always use the monotonic clock.
	Now   func() time.Time
	NewID func(time.Time) string
}

// Service is the alert dispatcher. It is safe for concurrent use.
type Service struct {
	channels  map[model.Channel]*transport.Channel
	critical  model.ChannelSet
	log       deliverylog.Sink
	metrics   metrics.Recorder
	escalator Escalator
	mode      model.Mode
	timeout   time.Duration
	render    render.Context
	logger    *slog.Logger
	now       func() time.Time
	newID     func(time.Time) string

	initMu       sync.Mutex
	mu           sync.RWMutex
	initialized  bool
	connectivity map[model.Channel]model.Connectivity

	escalations sync.WaitGroup
}

// New constructs a dispatcher from its collaborators.
func New(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	channels := make(map[model.Channel]*transport.Channel, len(opts.Channels))
	for _, ch := range opts.Channels {
		if ch == nil {
			continue
		}
		if _, dup := channels[ch.Channel()]; dup {
			return nil, fmt.Errorf("duplicate transport for channel %s", ch.Channel())
		}
		channels[ch.Channel()] = ch
	}

	critical := opts.Critical
	if len(critical) == 0 {
		critical = DefaultCritical
	}

	sink := opts.Log
	if sink == nil {
		sink = deliverylog.NewMemory(deliverylog.DefaultCapacity)
	}

	mode := opts.Mode
	if !mode.Valid() {
		mode = model.ModeDemo
	}

	timeout := opts.ChannelTimeout
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = NewAlertID
	}

	return &Service{
		channels:  channels,
		critical:  model.NewChannelSet(critical...),
		log:       sink,
		metrics:   opts.Metrics,
		escalator: opts.Escalator,
		mode:      mode,
		timeout:   timeout,
		render: render.Context{
			DashboardURL: opts.DashboardURL,
			ContactPhone: opts.ContactPhone,
			BrandName:    opts.BrandName,
		},
		logger:       logger.With("component", "alert_dispatcher"),
		now:          now,
		newID:        newID,
		connectivity: make(map[model.Channel]model.Connectivity, len(channels)),
	}, nil
}

// Initialize runs the one-time connectivity check across every configured channel.
// Subsequent calls are no-ops.
func (s *Service) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.Initialized() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return apperrors.FromContext(err, "initialize dispatcher")
	}

	results := s.checkAll(ctx)

	s.mu.Lock()
	for ch, status := range results {
		s.connectivity[ch] = status
	}
	s.initialized = true
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "alert dispatcher initialized",
		"mode", s.mode,
		"channels", len(results),
	)
	return nil
}

// Initialized reports whether Initialize has completed.
func (s *Service) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Dispatch fans the alert out to every channel with a recipient and waits for all of them.
// Channel failures are recorded in the report; only orchestration failures return an error.
func (s *Service) Dispatch(ctx context.Context, req model.AlertRequest) (report *model.DeliveryReport, err error) {
	if !s.Initialized() {
		return nil, apperrors.NotInitialized()
	}

	stamp := s.now()
	alertID := s.newID(stamp)

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "alert dispatch panicked", "alert_id", alertID, "panic", r)
			report = nil
			err = apperrors.Orchestration(alertID, fmt.Errorf("panic: %v", r))
		}
	}()

	if verr := req.Validate(); verr != nil {
		return nil, validationError(verr).WithRef(alertID)
	}

	start := time.Now()
	rc := s.render
	rc.AlertID = alertID
	rc.Timestamp = stamp

	requested := req.Recipients.Requested()
	outcomes := s.fanOut(ctx, req, rc, requested)

	rep := model.DeliveryReport{
		AlertID:   alertID,
		Timestamp: stamp,
		Shipment:  req.Shipment,
		Channels:  make(map[model.Channel]model.DeliveryOutcome, len(outcomes)),
	}
	for _, out := range outcomes {
		rep.Channels[out.Channel] = out
	}
	rep.OverallSuccess = s.overallSuccess(rep)
	rep.DeliveryTime = time.Since(start)

	s.observe(rep)

	if aerr := s.log.Append(ctx, rep); aerr != nil {
		s.logger.ErrorContext(ctx, "failed to record delivery report", "alert_id", alertID, "error", aerr)
		return nil, apperrors.Orchestration(alertID, aerr)
	}

	s.logger.InfoContext(ctx, "alert dispatched",
		"alert_id", alertID,
		"awb", req.Shipment.AWB,
		"channels", len(rep.Channels),
		"overall_success", rep.OverallSuccess,
		"delivery_time_ms", rep.DeliveryTime.Milliseconds(),
	)

	if !rep.OverallSuccess {
		s.escalate(ctx, rep)
	}

	return &rep, nil
}

// DeliveryLog returns the retained reports, oldest first.
func (s *Service) DeliveryLog(ctx context.Context) ([]model.DeliveryReport, error) {
	reports, err := s.log.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "read delivery log")
	}
	return reports, nil
}

// QueryLog evaluates a JMESPath expression against the retained reports.
func (s *Service) QueryLog(ctx context.Context, expr string) (any, error) {
	if err := deliverylog.ValidateQuery(expr); err != nil {
		return nil, apperrors.ValidationField("query", err.Error())
	}
	reports, err := s.DeliveryLog(ctx)
	if err != nil {
		return nil, err
	}
	result, err := deliverylog.Query(reports, expr)
	if err != nil {
		return nil, apperrors.ValidationField("query", err.Error())
	}
	return result, nil
}

// Status returns a snapshot of the dispatcher state.
func (s *Service) Status(ctx context.Context) (model.Status, error) {
	total, err := s.log.Total(ctx)
	if err != nil {
		return model.Status{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "read delivery log total")
	}
	last, err := s.log.Last(ctx)
	if err != nil {
		return model.Status{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "read last delivery report")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	conn := make(map[model.Channel]model.Connectivity, len(s.channels))
	for ch := range s.channels {
		status, ok := s.connectivity[ch]
		if !ok {
			status = model.ConnectivityPending
		}
		conn[ch] = status
	}

	return model.Status{
		Initialized:     s.initialized,
		TotalAlertsSent: int(total),
		LastAlert:       last,
		Connectivity:    conn,
		Mode:            s.mode,
	}, nil
}

// Mode reports whether the dispatcher runs simulated or live transports.
func (s *Service) Mode() model.Mode { return s.mode }

// Wait blocks until in-flight escalations finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.escalations.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) overallSuccess(rep model.DeliveryReport) bool {
	for ch, out := range rep.Channels {
		if s.critical.Contains(ch) && !out.Success {
			return false
		}
	}
	return true
}

func (s *Service) observe(rep model.DeliveryReport) {
	if s.metrics == nil {
		return
	}
	for _, ch := range model.Channels {
		if out, ok := rep.Channels[ch]; ok {
			s.metrics.ObserveDelivery(out)
		}
	}
	s.metrics.ObserveDispatch(rep)
}

// escalate hands the report to the escalator in the background. The request context
// is detached so an HTTP client disconnect does not cancel the page.
func (s *Service) escalate(ctx context.Context, rep model.DeliveryReport) {
	if s.escalator == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	rep = rep.Clone()

	s.escalations.Add(1)
	go func() {
		defer s.escalations.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("escalation panicked", "alert_id", rep.AlertID, "panic", r)
			}
		}()
		s.escalator.Escalate(detached, rep)
	}()
}

func validationError(err error) *apperrors.AppError {
	var fe *model.FieldError
	if errors.As(err, &fe) {
		return apperrors.ValidationField(fe.Field, fe.Error())
	}
	if errors.Is(err, model.ErrUnknownRecipientChannel) {
		return apperrors.ValidationField("AlertRequest.Recipients", err.Error())
	}
	return apperrors.Validation(err.Error())
}
