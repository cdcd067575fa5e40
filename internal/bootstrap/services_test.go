package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
	"github.com/nerva-logistics/alertdispatch/internal/observability/metrics"
)

func TestBuildServices_DemoMemory(t *testing.T) {
	cfg := testConfig(t, map[string]string{"DISPATCH_MODE": "demo", "DELIVERY_LOG_CAPACITY": "10"})

	c, err := BuildServices(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	require.NotNil(t, c.Dispatcher)
	assert.Equal(t, model.ModeDemo, c.Dispatcher.Mode())
	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.Observability.Prometheus)
	assert.Nil(t, c.Observability.MetricsSink)
	assert.False(t, c.Escalation.Enabled())
	assert.False(t, c.Dispatcher.Initialized())
}

func TestBuildServices_NilConfig(t *testing.T) {
	_, err := BuildServices(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestBuildObservability(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"OBSERVABILITY_METRICS_ENABLED":        "true",
		"OBSERVABILITY_METRICS_STATSD_ADDRESS": "127.0.0.1:8125",
	})

	obs := buildObservability(discardLogger(), cfg.Observability.Metrics, model.ModeDemo)
	t.Cleanup(func() { _ = obs.MetricsSink.Close() })

	require.NotNil(t, obs.Prometheus)
	require.True(t, obs.MetricsSink.Enabled())
	multi, ok := obs.Recorder.(metrics.Multi)
	require.True(t, ok)
	assert.Len(t, multi, 2)
}

func TestBuildObservability_Disabled(t *testing.T) {
	cfg := testConfig(t, map[string]string{"OBSERVABILITY_METRICS_PROMETHEUS": "false"})

	obs := buildObservability(discardLogger(), cfg.Observability.Metrics, model.ModeLive)
	assert.Nil(t, obs.Prometheus)
	assert.Nil(t, obs.MetricsSink)
	assert.Nil(t, obs.Recorder)
}

func TestBuildEscalation(t *testing.T) {
	critical := model.NewChannelSet(model.ChannelEmail)

	disabled := testConfig(t, nil)
	assert.False(t, buildEscalation(discardLogger(), disabled.Observability.Escalation, critical).Enabled())

	enabled := testConfig(t, map[string]string{
		"OBSERVABILITY_ESCALATION_ENABLED":               "true",
		"OBSERVABILITY_ESCALATION_PAGERDUTY_ENABLED":     "true",
		"OBSERVABILITY_ESCALATION_PAGERDUTY_ROUTING_KEY": "R0UT1NG",
	})
	assert.True(t, buildEscalation(discardLogger(), enabled.Observability.Escalation, critical).Enabled())
}

func TestRunServicesWithShutdown_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"HTTP_ADDR":                "127.0.0.1:0",
		"SIMULATION_LATENCY_SCALE": "0",
	})

	c, err := BuildServices(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServicesWithShutdown(ctx, &RunConfig{Config: cfg, Services: c, Logger: discardLogger()})
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServicesWithShutdown did not return after cancel")
	}
}

func TestRunServicesWithShutdown_RequiresServices(t *testing.T) {
	err := RunServicesWithShutdown(context.Background(), &RunConfig{})
	require.Error(t, err)
}

func TestShutdownHTTPServer_Nil(t *testing.T) {
	require.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))
}
