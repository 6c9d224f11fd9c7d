// Package app is the shared bootstrap for the service binaries: config, logging,
// stores, the HTTP API and the gRPC health endpoint.
package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"salon/backend/internal/config"
	"salon/backend/internal/transport/rest"
	grpcTransport "salon/backend/internal/transport/grpc"
)

// Run starts one service and blocks until it is signalled or a server fails.
// The return value is the process exit code.
func Run(d config.Defaults, mounts ...Mount) int {
	log := newLogger(d.Service, slog.LevelInfo)
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn(".env load failed", slog.Any("err", err))
	}

	cfg, err := config.Load(d)
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		return 1
	}

	log = newLogger(d.Service, parseLogLevel(cfg.LogLevel))
	slog.SetDefault(log)
	gin.SetMode(gin.ReleaseMode)

	log.Info(
		"starting",
		slog.String("http_addr", cfg.HTTPAddr()),
		slog.Bool("grpc_enabled", cfg.GRPCEnabled),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return 1
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	router := rest.NewRouter(rest.Options{
		Logger:         log,
		RequestTimeout: cfg.HTTPRequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		Health:         stores.Ping,
	})
	for _, m := range mounts {
		if err := m(router, stores, cfg, log); err != nil {
			log.Error("route setup failed", slog.Any("err", err))
			return 1
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	httpLis, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		log.Error("http listen failed", slog.Any("err", err), slog.String("http_addr", httpServer.Addr))
		return 1
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- httpServer.Serve(httpLis)
	}()
	log.Info("http server started", slog.String("http_addr", httpServer.Addr))

	var grpcServer *grpc.Server
	if cfg.GRPCEnabled {
		reporter := grpcTransport.NewHealthReporter(cfg.Service, stores.Ping, cfg.HealthInterval, log)
		go reporter.Run(ctx)

		grpcServer = grpcTransport.NewServer(reporter, cfg.HTTPRequestTimeout)
		grpcLis, err := net.Listen("tcp", cfg.GRPCAddr())
		if err != nil {
			log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
			shutdownHTTP(log, httpServer, cfg.ShutdownTimeout)
			return 1
		}
		go func() {
			errCh <- grpcServer.Serve(grpcLis)
		}()
		log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))
	}

	code := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("server stopped with error", slog.Any("err", err))
			code = 1
		}
	}

	shutdownHTTP(log, httpServer, cfg.ShutdownTimeout)
	if grpcServer != nil {
		shutdownGRPC(log, grpcServer, cfg.ShutdownTimeout)
	}
	return code
}

func shutdownHTTP(log *slog.Logger, s *http.Server, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown timed out; forcing close", slog.Any("err", err))
		_ = s.Close()
		return
	}
	log.Info("http server stopped")
}

func shutdownGRPC(log *slog.Logger, s *grpc.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", slog.Duration("timeout", timeout))

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func newLogger(service string, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("service", service),
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
