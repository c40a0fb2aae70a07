package server

import (
	"errors"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the service name reported by the health endpoint.
const HealthService = "devserve.v1.StaticService"

// healthEndpoint exposes grpc.health.v1.Health on its own listener.
type healthEndpoint struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

func newHealthEndpoint(addr string) (*healthEndpoint, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen health on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthService, grpc_health_v1.HealthCheckResponse_SERVING)

	return &healthEndpoint{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
	}, nil
}

func (h *healthEndpoint) addr() string {
	if h == nil || h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

func (h *healthEndpoint) serve() error {
	err := h.grpcServer.Serve(h.listener)
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve health gRPC: %w", err)
}

// stop flips every status to NOT_SERVING before closing the listener.
func (h *healthEndpoint) stop() {
	if h == nil {
		return
	}
	h.health.Shutdown()
	h.grpcServer.Stop()
	_ = h.listener.Close()
}
