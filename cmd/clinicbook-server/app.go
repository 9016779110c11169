package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"clinicbook/internal/config"
	"clinicbook/internal/lock"
	"clinicbook/internal/store"
	"clinicbook/internal/store/memory"
	"clinicbook/internal/store/sqlstore"
)

// stores bundles the repositories for the configured driver together with
// the handles that need closing and pinging.
type stores struct {
	appointments store.AppointmentRepository
	directory    store.DirectoryRepository
	db           *bun.DB
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger, migrate bool) (*stores, error) {
	log.Info("opening store", databaseLogArgs(cfg.DatabaseDriver, cfg.DatabaseURL)...)

	if cfg.DatabaseDriver == config.DriverMemory {
		m := memory.New()
		return &stores{appointments: m, directory: m}, nil
	}

	db, err := sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseURL, sqlstore.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseDriver, cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return nil, err
	}

	if migrate {
		applied, err := sqlstore.Migrate(ctx, db)
		if err != nil {
			_ = sqlstore.Close(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if len(applied) > 0 {
			log.Info("migrations applied", slog.Any("versions", applied))
		}
	}

	return &stores{
		appointments: sqlstore.NewAppointmentRepo(db),
		directory:    sqlstore.NewDirectoryRepo(db),
		db:           db,
	}, nil
}

func (s *stores) ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func (s *stores) close() error {
	return sqlstore.Close(s.db)
}

// newLocker returns the admission lock and, for the redis variant, the
// client it owns.
func newLocker(ctx context.Context, cfg config.Config, log *slog.Logger) (lock.Locker, *redis.Client, error) {
	if cfg.BookingLock != config.LockRedis {
		return lock.NewLocal(), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Error("redis connection failed", slog.Any("err", err), slog.String("redis_addr", cfg.RedisAddr))
		return nil, nil, err
	}
	log.Info("using redis admission lock", slog.String("redis_addr", cfg.RedisAddr))
	return lock.NewRedis(rdb, lock.WithLogger(log)), rdb, nil
}

func readiness(s *stores, rdb *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var errs []error
		if err := s.ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				errs = append(errs, fmt.Errorf("redis: %w", err))
			}
		}
		return errors.Join(errs...)
	}
}
