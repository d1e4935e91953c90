package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/photogallery-server/internal/api/grpc/middleware"
	"github.com/dtroode/photogallery-server/internal/logger"
)

// Router builds the operational gRPC server. It exposes the standard health
// service so orchestrators can probe the process without going through the
// public HTTP API.
type Router struct {
	health *health.Server
	logger *logger.Logger
}

// New creates new gRPC Router instance around the given health server.
func New(healthServer *health.Server, logger *logger.Logger) *Router {
	return &Router{
		health: healthServer,
		logger: logger,
	}
}

// Probes are frequent and not worth a log line each.
func logSkip(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() != healthpb.Health_Check_FullMethodName
}

// Register registers the health service, reflection and interceptors.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := middleware.NewRecoveryOption(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			selector.UnaryServerInterceptor(
				grpc.UnaryServerInterceptor(logging.HandleGRPC),
				selector.MatchFunc(logSkip),
			),
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}
