package transport

import (
	"context"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
)

// Unimplemented marks a live channel whose provider integration is not enabled.
// Every delivery fails immediately with a ChannelUnimplemented error.
type Unimplemented struct {
	Provider string
}

var _ Deliverer = Unimplemented{}

// Name implements Deliverer.
func (Unimplemented) Name() string { return "unimplemented" }

// Check implements Deliverer.
func (Unimplemented) Check(context.Context) model.Connectivity {
	return model.ConnectivityUnimplemented
}

// Deliver implements Deliverer.
func (u Unimplemented) Deliver(context.Context, Envelope) (Receipt, error) {
	return Receipt{}, apperrors.ChannelUnimplemented(u.Provider)
}
