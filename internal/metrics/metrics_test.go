package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/rbright/zwatch/internal/fsm"
	"github.com/rbright/zwatch/internal/zone"
)

func TestCountersByLabel(t *testing.T) {
	m := New()

	m.ObserveTransition(zone.CommandStart)
	m.ObserveTransition(zone.CommandNone)
	m.ObserveTransition(zone.CommandNone)
	m.ObserveAttempt(nil)
	m.ObserveAttempt(errors.New("refused"))
	m.ObserveDelivery(errors.New("exhausted"), time.Second)

	require.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("start")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("none")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("dropped")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.deliveries.WithLabelValues("delivered")))
}

func TestSetStateIsExclusive(t *testing.T) {
	m := New()

	m.SetState(fsm.StateRunning)
	require.Equal(t, 1.0, testutil.ToFloat64(m.state.WithLabelValues("running")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.state.WithLabelValues("starting")))

	m.SetState(fsm.StateTerminated)
	require.Equal(t, 0.0, testutil.ToFloat64(m.state.WithLabelValues("running")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.state.WithLabelValues("terminated")))
}

func TestServeExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveTransition(zone.CommandStop)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- m.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `zwatch_transition_events_total{command="stop"} 1`)

	cancel()
	require.NoError(t, <-serveDone)
}
