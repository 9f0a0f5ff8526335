package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false, ServiceName: "planner"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.Equal(t, "planner", tp.GetConfig().ServiceName)
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	disabled, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, disabled.EnableSpanProfiles())

	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	sdkProvider := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = sdkProvider.Shutdown(context.Background()) })
	tp := &TracerProvider{provider: sdkProvider, logger: zap.NewNop(), config: Config{Enabled: true}}

	assert.True(t, tp.EnableSpanProfiles())
	assert.NotEqual(t, trace.TracerProvider(sdkProvider), otel.GetTracerProvider())
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"full", 1, "AlwaysOnSampler"},
		{"above one", 2, "AlwaysOnSampler"},
		{"zero", 0, "AlwaysOffSampler"},
		{"negative", -0.5, "AlwaysOffSampler"},
		{"ratio", 0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Sampler(tt.ratio).Description(), tt.want)
		})
	}
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
