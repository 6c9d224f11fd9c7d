package grpc

import (
	"context"
	"log/slog"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter publishes the store's reachability through grpc.health.v1.
// The overall status ("") and the named service move together.
type HealthReporter struct {
	srv      *health.Server
	pinger   Pinger
	service  string
	interval time.Duration
	log      *slog.Logger

	serving bool
}

func NewHealthReporter(service string, pinger Pinger, interval time.Duration, log *slog.Logger) *HealthReporter {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	h := &HealthReporter{
		srv:      health.NewServer(),
		pinger:   pinger,
		service:  service,
		interval: interval,
		log:      log.With(slog.String("component", "grpc.health")),
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Run probes the store immediately and then once per interval until ctx is done,
// at which point every service is reported NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			h.log.Info("health reporter stopped")
			return
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

func (h *HealthReporter) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	err := h.pinger.PingContext(ctx)
	switch {
	case err == nil && !h.serving:
		h.serving = true
		h.set(healthpb.HealthCheckResponse_SERVING)
		h.log.Info("store reachable", slog.String("status", "SERVING"))
	case err != nil && h.serving:
		h.serving = false
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
		h.log.Warn("store unreachable", slog.String("status", "NOT_SERVING"), slog.Any("err", err))
	case err != nil:
		h.log.Debug("store still unreachable", slog.Any("err", err))
	}
}

func (h *HealthReporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.srv.SetServingStatus("", status)
	if h.service != "" {
		h.srv.SetServingStatus(h.service, status)
	}
}

// NewServer returns a gRPC server exposing the health service and reflection.
func NewServer(h *HealthReporter, requestTimeout time.Duration) *grpclib.Server {
	s := grpclib.NewServer(
		grpclib.UnaryInterceptor(defaultRequestTimeoutInterceptor(requestTimeout)),
	)
	healthpb.RegisterHealthServer(s, h.srv)
	reflection.Register(s)
	return s
}

func defaultRequestTimeoutInterceptor(timeout time.Duration) grpclib.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpclib.UnaryServerInfo, handler grpclib.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}
