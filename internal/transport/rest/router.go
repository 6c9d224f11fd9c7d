// Package rest exposes the entity services over JSON/HTTP with gin.
package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"salon/backend/internal/domain"
	"salon/backend/internal/service/bookings"
	"salon/backend/internal/service/catalog"
	"salon/backend/internal/service/staff"
	"salon/backend/internal/service/users"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	CORSOrigins    []string
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	RateBurst int
	Health    Pinger
}

// NewRouter builds the engine with the shared middleware stack and the health
// route. Resources are attached with the Mount functions.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), corsMiddleware(opts.CORSOrigins))
	if opts.RateLimit > 0 {
		r.Use(rateLimit(newClientLimiter(opts.RateLimit, opts.RateBurst), log))
	}
	if opts.RequestTimeout > 0 {
		r.Use(requestTimeout(opts.RequestTimeout))
	}

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	r.GET("/health", healthHandler(opts.Health, log))
	return r
}

func healthHandler(p Pinger, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			if err := p.PingContext(c.Request.Context()); err != nil {
				log.Warn("health check failed", slog.Any("err", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func MountUsers(r gin.IRouter, svc *users.Service, log *slog.Logger) {
	res := &resource[domain.User, users.Input, userRequest]{
		kind:    "user",
		svc:     svc,
		toInput: userInput,
		render:  renderUser,
		log:     componentLogger(log, "http.users"),
	}
	res.register(r.Group("/api/users"))
}

func MountStaff(r gin.IRouter, svc *staff.Service, log *slog.Logger) {
	res := &resource[domain.Staff, staff.Input, staffRequest]{
		kind:    "staff member",
		svc:     svc,
		toInput: staffInput,
		render:  renderStaff,
		log:     componentLogger(log, "http.staff"),
	}
	res.register(r.Group("/api/staff"))
}

func MountServices(r gin.IRouter, svc *catalog.Service, log *slog.Logger) {
	res := &resource[domain.Service, catalog.Input, serviceRequest]{
		kind:    "service",
		svc:     svc,
		toInput: serviceInput,
		render:  renderService,
		log:     componentLogger(log, "http.services"),
	}
	res.register(r.Group("/api/services"))
}

// MountBookings also serves GET /api/bookings?staff_id=... for a single staff member's schedule.
func MountBookings(r gin.IRouter, svc *bookings.Service, log *slog.Logger) {
	res := &resource[domain.Booking, bookings.Input, bookingRequest]{
		kind:    "booking",
		svc:     svc,
		toInput: bookingInput,
		render:  renderBooking,
		log:     componentLogger(log, "http.bookings"),
	}
	res.list = func(c *gin.Context) ([]domain.Booking, error) {
		raw := strings.TrimSpace(c.Query("staff_id"))
		if raw == "" {
			return svc.List(c.Request.Context())
		}
		staffID, err := requiredUUID("staff_id", raw)
		if err != nil {
			return nil, err
		}
		return svc.ListByStaff(c.Request.Context(), staffID)
	}
	res.register(r.Group("/api/bookings"))
}

func componentLogger(log *slog.Logger, component string) *slog.Logger {
	if log == nil {
		log = slog.Default()
	}
	return log.With(slog.String("component", component))
}
