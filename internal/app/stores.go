package app

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"salon/backend/internal/config"
	"salon/backend/internal/store"
	"salon/backend/internal/store/memory"
	"salon/backend/internal/store/postgres"
)

// Stores bundles every repository a binary may mount. Ping backs the health checks.
type Stores struct {
	Users    store.UserRepository
	Staff    store.StaffRepository
	Services store.ServiceRepository
	Bookings store.BookingRepository
	Ping     interface {
		PingContext(ctx context.Context) error
	}
	close func() error
}

func (s Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (Stores, error) {
	if cfg.MemoryStore() {
		log.Warn("using in-memory store; data is lost on restart")
		users := memory.NewUserRepo()
		return Stores{
			Users:    users,
			Staff:    memory.NewStaffRepo(),
			Services: memory.NewServiceRepo(),
			Bookings: memory.NewBookingRepo(),
			Ping:     users,
		}, nil
	}

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return Stores{}, err
	}
	return Stores{
		Users:    postgres.NewUserRepo(db),
		Staff:    postgres.NewStaffRepo(db),
		Services: postgres.NewServiceRepo(db),
		Bookings: postgres.NewBookingRepo(db),
		Ping:     db,
		close:    func() error { return postgres.Close(db) },
	}, nil
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
