package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/nerva-logistics/alertdispatch/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error", err: apperrors.SimulatedFailure("roll"), want: "simulated_failure"},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("send: %w", apperrors.ChannelUnimplemented("Twilio")),
			want: "channel_unimplemented",
		},
		{
			name: "innermost concrete type",
			err:  fmt.Errorf("dial: %w", &net.OpError{Op: "dial", Err: errors.New("refused")}),
			want: "errors_errorstring",
		},
		{name: "plain", err: errors.New("x"), want: "errors_errorstring"},
		{name: "context deadline", err: context.DeadlineExceeded, want: "context_deadlineexceedederror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
