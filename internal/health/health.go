// Package health serves the gRPC health protocol for supervisors.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rbright/zwatch/internal/fsm"
)

// Service is the health service name reported alongside the overall "" status.
const Service = "zwatch"

// Server reports SERVING only while the daemon is running.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewServer() *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.SetState(fsm.StateStarting)
	return s
}

// SetState maps a lifecycle state onto the health status.
func (s *Server) SetState(state fsm.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state == fsm.StateRunning {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(Service, status)
}

// Serve handles health RPCs on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpc.GracefulStop()
	}()

	if err := s.grpc.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve health: %w", err)
	}
	return nil
}
