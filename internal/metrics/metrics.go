// Package metrics exposes daemon counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rbright/zwatch/internal/fsm"
	"github.com/rbright/zwatch/internal/zone"
)

// Metrics holds the daemon collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	transitions *prometheus.CounterVec
	attempts    *prometheus.CounterVec
	deliveries  *prometheus.CounterVec
	duration    prometheus.Histogram
	state       *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zwatch_transition_events_total",
				Help: "Zone transition events received, by derived command",
			},
			[]string{"command"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zwatch_relay_attempts_total",
				Help: "Relay connection attempts, by result",
			},
			[]string{"result"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zwatch_relay_deliveries_total",
				Help: "Relay delivery outcomes per command",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "zwatch_relay_delivery_duration_seconds",
				Help:    "Time spent delivering one command, retries included",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "zwatch_daemon_state",
				Help: "1 for the lifecycle state the daemon currently holds",
			},
			[]string{"state"},
		),
	}

	m.Registry.MustRegister(m.transitions, m.attempts, m.deliveries, m.duration, m.state)
	return m
}

func (m *Metrics) ObserveTransition(cmd zone.Command) {
	m.transitions.WithLabelValues(cmd.String()).Inc()
}

func (m *Metrics) ObserveAttempt(err error) {
	m.attempts.WithLabelValues(result(err, "success", "failure")).Inc()
}

func (m *Metrics) ObserveDelivery(err error, elapsed time.Duration) {
	m.deliveries.WithLabelValues(result(err, "delivered", "dropped")).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// SetState marks current as the only active lifecycle state.
func (m *Metrics) SetState(current fsm.State) {
	for _, s := range fsm.States {
		value := 0.0
		if s == current {
			value = 1
		}
		m.state.WithLabelValues(string(s)).Set(value)
	}
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Serve exposes /metrics on listener until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

func result(err error, ok, failed string) string {
	if err != nil {
		return failed
	}
	return ok
}
