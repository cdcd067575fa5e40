package alertdispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
	obserrors "github.com/nerva-logistics/alertdispatch/internal/observability/errors"
	"github.com/nerva-logistics/alertdispatch/internal/render"
)

// fanOut sends to every channel concurrently. Each goroutine owns one slot of the
// result slice, so no outcome map is shared while sends are in flight.
func (s *Service) fanOut(
	ctx context.Context,
	req model.AlertRequest,
	rc render.Context,
	channels []model.Channel,
) []model.DeliveryOutcome {
	results := make([]model.DeliveryOutcome, len(channels))

	var group errgroup.Group
	for i, ch := range channels {
		group.Go(func() error {
			results[i] = s.sendOne(ctx, ch, req, rc)
			return nil
		})
	}
	_ = group.Wait()

	return results
}

// sendOne runs a single channel attempt under the per-channel deadline. A transport that
// ignores its context is abandoned once the deadline passes.
func (s *Service) sendOne(
	ctx context.Context,
	ch model.Channel,
	req model.AlertRequest,
	rc render.Context,
) model.DeliveryOutcome {
	start := time.Now()
	base := model.DeliveryOutcome{
		Channel:   ch,
		Recipient: req.Recipients[ch],
	}

	tr, ok := s.channels[ch]
	if !ok {
		return failed(base, start, apperrors.Wrap(
			fmt.Errorf("no transport configured for %s", ch),
			apperrors.ErrCodeChannelUnimplemented,
			fmt.Sprintf("%s channel not configured", ch),
		))
	}
	base.Transport = tr.TransportName()
	base.DemoMode = tr.Demo()

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan model.DeliveryOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- failed(base, start, apperrors.Internalf("%s transport panicked: %v", ch, r))
			}
		}()
		done <- tr.Send(cctx, req, rc)
	}()

	select {
	case out := <-done:
		return out
	case <-cctx.Done():
		err := apperrors.FromContext(cctx.Err(), fmt.Sprintf("%s delivery abandoned", ch))
		s.logger.WarnContext(ctx, "channel delivery abandoned",
			"alert_id", rc.AlertID,
			"channel", ch,
			"timeout", s.timeout,
			"error", err,
		)
		return failed(base, start, err)
	}
}

func failed(out model.DeliveryOutcome, start time.Time, err error) model.DeliveryOutcome {
	out.Success = false
	out.MessageID = ""
	out.Elapsed = time.Since(start)
	out.Error = err.Error()
	out.ErrorCode = obserrors.Classify(err)
	return out
}
