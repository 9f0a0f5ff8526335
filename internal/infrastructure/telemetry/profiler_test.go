package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop(), "stop is idempotent")
}

func TestNewProfiler_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
	}{
		{"missing server address", ProfilerConfig{Enabled: true, ApplicationName: "planner"}},
		{"missing application name", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}},
		{"unknown profile type", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040",
			ApplicationName: "planner", ProfileTypes: []string{"cpu", "heap"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileAllocSpace, pyroscope.ProfileInuseSpace}, types)

	types, err = ParseProfileTypes([]string{"goroutines", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileGoroutines, pyroscope.ProfileMutexCount}, types)

	_, err = ParseProfileTypes([]string{"bogus"})
	assert.ErrorContains(t, err, "bogus")
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("labels are visible inside fn", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), map[string]string{
			ProfilingLabelRoute:    "/api/v1/quotations/:id",
			ProfilingLabelMethod:   "GET",
			ProfilingLabelResource: "",
		}, func(ctx context.Context) {
			called = true
			route, ok := pprof.Label(ctx, ProfilingLabelRoute)
			assert.True(t, ok)
			assert.Equal(t, "/api/v1/quotations/:id", route)
			_, ok = pprof.Label(ctx, ProfilingLabelResource)
			assert.False(t, ok, "empty values are dropped")
		})
		assert.True(t, called)
	})

	t.Run("no labels runs fn with the same context", func(t *testing.T) {
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "x")
		WithProfilingLabels(ctx, nil, func(got context.Context) {
			assert.Equal(t, ctx, got)
		})
	})
}
