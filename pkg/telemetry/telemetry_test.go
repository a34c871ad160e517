package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/friend-graph/config"
)

func TestDisabledBackendsAreNoop(t *testing.T) {
	cfg := &config.Config{}

	stopSentry, err := InitSentry(cfg)
	require.NoError(t, err)
	assert.NoError(t, stopSentry(context.Background()))

	stopTracer, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, stopTracer(context.Background()))
}

func TestInitTracerRegistersProvider(t *testing.T) {
	cfg := &config.Config{
		Tracing: config.TracingConfig{Endpoint: "localhost:4318", ServiceName: "friend-graph-test", Insecure: true},
	}
	stop, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, stop(context.Background()))
}
