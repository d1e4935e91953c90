package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"

	grpchandler "github.com/dtroode/photogallery-server/internal/api/grpc/handler"
	grpcrouter "github.com/dtroode/photogallery-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/photogallery-server/internal/api/grpc/server"
	httphandler "github.com/dtroode/photogallery-server/internal/api/http/handler"
	httprouter "github.com/dtroode/photogallery-server/internal/api/http/router"
	httpserver "github.com/dtroode/photogallery-server/internal/api/http/server"
	"github.com/dtroode/photogallery-server/internal/config"
	"github.com/dtroode/photogallery-server/internal/logger"
	"github.com/dtroode/photogallery-server/internal/model"
	"github.com/dtroode/photogallery-server/internal/password"
	"github.com/dtroode/photogallery-server/internal/repository/memory"
	"github.com/dtroode/photogallery-server/internal/repository/postgres"
	redisrepo "github.com/dtroode/photogallery-server/internal/repository/redis"
	"github.com/dtroode/photogallery-server/internal/server"
	"github.com/dtroode/photogallery-server/internal/service"
	storage "github.com/dtroode/photogallery-server/internal/storage/minio"
	"github.com/dtroode/photogallery-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	logAppVersion()

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	storageClient, err := storage.New(ctx, storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	pingers := map[string]httphandler.PingFunc{
		"database": db.Ping,
		"storage":  storageClient.Ping,
	}

	tokenStore, closeStore, err := newTokenStore(ctx, cfg, db, pingers)
	if err != nil {
		logger.Fatal("failed to initialize token store", "error", err, "backend", cfg.TokenStore.Backend)
	}
	defer closeStore()
	logger.Info("token store ready", "backend", cfg.TokenStore.Backend)

	signer, err := token.NewJWT(token.Config{
		Secret:   []byte(cfg.JWT.Secret),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	if err != nil {
		logger.Fatal("failed to initialize token signer", "error", err)
	}

	hasher, err := password.NewArgon2(password.Config{
		Time:        cfg.Password.Time,
		MemKiB:      cfg.Password.MemKiB,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	photoRepo := postgres.NewPhotoRepository(db)

	tokenService := service.NewTokenService(signer, token.NewRefreshGenerator(), tokenStore, userRepo, service.TokenConfig{
		AccessTTL:       cfg.JWT.AccessTTL,
		RefreshTTL:      cfg.JWT.RefreshTTL,
		StoreTimeout:    cfg.TokenStore.Timeout,
		ConflictBackoff: cfg.TokenStore.ConflictBackoff,
	}, logger)
	authService := service.NewAuth(userRepo, hasher, tokenService, logger)
	photoService := service.NewPhoto(photoRepo, storageClient, logger)

	httpDeps := make(map[string]httphandler.Pinger, len(pingers))
	grpcDeps := make(map[string]grpchandler.Pinger, len(pingers))
	for name, ping := range pingers {
		httpDeps[name] = ping
		grpcDeps[name] = ping
	}

	app := httprouter.New(authService, photoService, tokenService, httpDeps, logger).Register()
	httpSrv := httpserver.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port))

	healthServer := health.NewServer()
	reporter := grpchandler.NewHealthReporter(healthServer, grpcDeps, cfg.GRPC.ProbeInterval, logger)
	grpcSrv := grpcserver.NewGRPCServer(grpcrouter.New(healthServer, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	httpSecurity := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	grpcSecurity := server.NewPlainListener()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(logger, httpSrv, httpSecurity) })
	g.Go(func() error { return serve(logger, grpcSrv, grpcSecurity) })
	g.Go(func() error { return reporter.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, s := range []model.Server{httpSrv, grpcSrv} {
			if err := s.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "error", err, "address", s.Address())
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func serve(logger *logger.Logger, s model.Server, sl model.SecurityLayer) error {
	logger.Info("Starting server on", "address", s.Address())
	if err := s.Start(sl); err != nil {
		return fmt.Errorf("server %s: %w", s.Address(), err)
	}
	return nil
}

// newTokenStore builds the configured backend and registers its health check.
func newTokenStore(
	ctx context.Context,
	cfg *config.Config,
	db *postgres.Connection,
	pingers map[string]httphandler.PingFunc,
) (model.TokenStore, func(), error) {
	switch cfg.TokenStore.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		pingers["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redisrepo.NewTokenRecordRepository(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	case config.BackendMemory:
		return memory.NewTokenRecordRepository(), func() {}, nil
	default:
		return postgres.NewTokenRecordRepository(db), func() {}, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
