package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/config"
	"github.com/pribylovaa/fittrack-dashboard/internal/http/handlers"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/cookie"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/memory"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/mongo"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/postgres"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/redis"
)

// janitorPeriod — период очистки просроченных записей в Postgres.
const janitorPeriod = 30 * time.Minute

// openRecords открывает хранилище записей профиля по cfg.Storage.Driver.
// Возвращённый close безопасно вызывать повторно.
func openRecords(ctx context.Context, cfg *config.Config, log *slog.Logger) (handlers.Records, func(), error) {
	name := cfg.Profile.RecordName

	if cfg.Storage.Driver == config.DriverCookie {
		return handlers.CookieRecords(name, cookie.WithSecure(cfg.Session.Secure)), func() {}, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		rs  storage.RecordsStorage
		err error
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		rs = memory.New()
	case config.DriverRedis:
		rs, err = redis.New(dialCtx, cfg.Storage.RedisURL, cfg.Storage.RedisPrefix)
	case config.DriverMongo:
		rs, err = mongo.New(dialCtx, cfg.Storage.MongoURL, cfg.Storage.MongoDB)
	case config.DriverPostgres:
		var pg *postgres.RecordsStorage
		pg, err = postgres.New(dialCtx, cfg.Storage.PostgresURL)
		if err == nil {
			startRecordsJanitor(ctx, pg, log, janitorPeriod)
			rs = pg
		}
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if err != nil {
		return nil, nil, err
	}

	closed := false
	closeFn := func() {
		if !closed {
			closed = true
			rs.Close()
		}
	}

	return handlers.ServerRecords(rs, name), closeFn, nil
}

// startRecordsJanitor периодически удаляет просроченные записи профиля.
func startRecordsJanitor(ctx context.Context, pg *postgres.RecordsStorage, log *slog.Logger, period time.Duration) {
	if period <= 0 {
		return
	}

	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := pg.DeleteExpired(ctx)
				if err != nil {
					log.Error("records_janitor_failed", slog.String("err", err.Error()))
					continue
				}
				if n > 0 {
					log.Info("records_janitor_purged", slog.Int64("deleted", n))
				}
			}
		}
	}()
}
