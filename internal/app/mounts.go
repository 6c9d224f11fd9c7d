package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"salon/backend/internal/availability"
	"salon/backend/internal/config"
	"salon/backend/internal/service/bookings"
	"salon/backend/internal/service/catalog"
	"salon/backend/internal/service/staff"
	"salon/backend/internal/service/users"
	"salon/backend/internal/transport/rest"
)

// Mount attaches one resource to the router.
type Mount func(r gin.IRouter, s Stores, cfg config.Config, log *slog.Logger) error

func Users(r gin.IRouter, s Stores, cfg config.Config, log *slog.Logger) error {
	rest.MountUsers(r, users.NewService(s.Users), log)
	return nil
}

func Staff(r gin.IRouter, s Stores, cfg config.Config, log *slog.Logger) error {
	rest.MountStaff(r, staff.NewService(s.Staff), log)
	return nil
}

func Services(r gin.IRouter, s Stores, cfg config.Config, log *slog.Logger) error {
	rest.MountServices(r, catalog.NewService(s.Services), log)
	return nil
}

func Bookings(r gin.IRouter, s Stores, cfg config.Config, log *slog.Logger) error {
	bcfg, err := bookingConfig(cfg)
	if err != nil {
		return err
	}
	log.Info(
		"booking rules",
		slog.String("conflict_policy", bcfg.Policy.Name()),
		slog.Duration("default_duration", bcfg.DefaultDuration),
		slog.String("time_zone", bcfg.Location.String()),
	)
	rest.MountBookings(r, bookings.NewService(s.Bookings, bcfg), log)
	return nil
}

func bookingConfig(cfg config.Config) (bookings.Config, error) {
	policy, err := availability.PolicyByName(cfg.ConflictPolicy)
	if err != nil {
		return bookings.Config{}, err
	}
	tz := cfg.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return bookings.Config{}, fmt.Errorf("booking time zone: %w", err)
	}
	if cfg.DefaultBookingDuration <= 0 || cfg.DefaultBookingDuration > 24*time.Hour {
		return bookings.Config{}, fmt.Errorf("booking default duration %s must be within (0, 24h]", cfg.DefaultBookingDuration)
	}
	return bookings.Config{
		Policy:          policy,
		DefaultDuration: cfg.DefaultBookingDuration,
		Location:        loc,
	}, nil
}
