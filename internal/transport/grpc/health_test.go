package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type togglePinger struct {
	down atomic.Bool
}

func (p *togglePinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("database is locked")
	}
	return nil
}

// status reports SERVICE_UNKNOWN until the service has been registered by a check.
func status(t *testing.T, h *HealthReporter, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.GetStatus()
}

func TestHealthReporter_Check(t *testing.T) {
	// given
	pinger := &togglePinger{}
	h := NewHealthReporter(pinger, time.Second, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	// when
	up := h.Check(context.Background())

	// then
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, up)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, h, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, h, ServiceName))

	// when
	pinger.down.Store(true)
	down := h.Check(context.Background())

	// then
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, down)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, h, ServiceName))
}

func TestHealthReporter_RunStopsOnCancel(t *testing.T) {
	// given
	pinger := &togglePinger{}
	h := NewHealthReporter(pinger, 10*time.Millisecond, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() { done <- h.Run(ctx) }()
	require.Eventually(t, func() bool {
		return status(t, h, ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)
	pinger.down.Store(true)
	require.Eventually(t, func() bool {
		return status(t, h, ServiceName) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)
	cancel()

	// then
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
