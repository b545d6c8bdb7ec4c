package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServiceName is the service name reported by the gRPC health server
// alongside the overall ("") status.
const HealthServiceName = "wledrelay.Effect"

// NewGRPCServer creates a gRPC server with standard interceptors and registers
// the health service and reflection. Health reports SERVING while the store
// binding is present.
func NewGRPCServer(relay *RelayServer) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
		),
	)

	hs := health.NewServer()
	relay.UpdateHealth(hs)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return srv, hs
}

// UpdateHealth sets hs to reflect whether the store binding is present.
func (s *RelayServer) UpdateHealth(hs *health.Server) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if s.Bound() {
		st = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(HealthServiceName, st)
}
