package alertdispatch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

type checkResult struct {
	channel model.Channel
	status  model.Connectivity
}

// checkAll probes every configured channel concurrently, each under the channel timeout.
func (s *Service) checkAll(ctx context.Context) map[model.Channel]model.Connectivity {
	var order []model.Channel
	for _, ch := range model.Channels {
		if _, ok := s.channels[ch]; ok {
			order = append(order, ch)
		}
	}

	results := make([]checkResult, len(order))
	var group errgroup.Group
	for i, ch := range order {
		group.Go(func() error {
			results[i] = checkResult{channel: ch, status: s.checkOne(ctx, ch)}
			return nil
		})
	}
	_ = group.Wait()

	out := make(map[model.Channel]model.Connectivity, len(results))
	for _, res := range results {
		out[res.channel] = res.status
		log := s.logger.InfoContext
		if !res.status.Usable() {
			log = s.logger.WarnContext
		}
		log(ctx, "channel connectivity",
			"channel", res.channel,
			"transport", s.channels[res.channel].TransportName(),
			"status", res.status,
		)
	}
	return out
}

func (s *Service) checkOne(ctx context.Context, ch model.Channel) (status model.Connectivity) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "connectivity check panicked", "channel", ch, "panic", r)
			status = model.ConnectivityUnreachable
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.channels[ch].Check(cctx)
}
