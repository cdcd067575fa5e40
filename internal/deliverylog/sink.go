// Package deliverylog retains delivery reports after each dispatch.
package deliverylog

import (
	"context"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// DefaultCapacity bounds how many reports a sink retains.
const DefaultCapacity = 500

// Sink is an append-only log of delivery reports. Implementations are safe for concurrent use.
type Sink interface {
	// Append records a report, evicting the oldest entry once capacity is reached.
	Append(ctx context.Context, report model.DeliveryReport) error
	// List returns retained reports, oldest first.
	List(ctx context.Context) ([]model.DeliveryReport, error)
	// Len returns the number of retained reports.
	Len(ctx context.Context) (int, error)
	// Total returns how many reports were ever appended, including evicted ones.
	Total(ctx context.Context) (int64, error)
	// Last returns the most recent report, or nil when the log is empty.
	Last(ctx context.Context) (*model.DeliveryReport, error)
}
