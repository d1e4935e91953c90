package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/photogallery-server/internal/logger"
)

// NewRecoveryOption returns a recovery option that logs the panic and
// answers codes.Internal.
func NewRecoveryOption(logger *logger.Logger) recovery.Option {
	return recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		logger.Error("gRPC handler panicked",
			"panic", p)
		return status.Error(codes.Internal, "internal server error")
	})
}
