// Package mocks provides mock implementations for testing the alert dispatcher.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the transport,
// delivery log and metrics seams. To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	deliverer := mocks.NewMockDeliverer(ctrl)
//	deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(transport.Receipt{MessageID: "MSG_1"}, nil)
package mocks

// Deliverer: Name, Check, Deliver
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=deliverer_mock.go github.com/nerva-logistics/alertdispatch/internal/transport Deliverer

// Sink: Append, List, Len, Total, Last
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sink_mock.go github.com/nerva-logistics/alertdispatch/internal/deliverylog Sink

// Recorder: ObserveDelivery, ObserveDispatch
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=recorder_mock.go github.com/nerva-logistics/alertdispatch/internal/observability/metrics Recorder
