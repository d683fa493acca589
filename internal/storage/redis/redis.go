// redis предоставляет реализацию storage.RecordsStorage на базе Redis.
// Запись хранится строкой под ключом prefix+key с TTL (SET ... EX).
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "fittrack:"

type RecordsStorage struct {
	rdb    *goredis.Client
	prefix string
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "fittrack:".
func New(ctx context.Context, redisURL, prefix string) (*RecordsStorage, error) {
	const op = "storage/redis/New"

	if prefix == "" {
		prefix = defaultPrefix
	}

	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := goredis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RecordsStorage{rdb: rdb, prefix: prefix}, nil
}

func (s *RecordsStorage) key(k string) string { return s.prefix + k }

// Record возвращает значение; redis.Nil -> storage.ErrNotFoundRecord.
func (s *RecordsStorage) Record(ctx context.Context, key string) (string, error) {
	const op = "storage/redis/Record"

	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundRecord)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// PutRecord сохраняет значение с TTL. Неположительный ttl сразу удаляет запись.
func (s *RecordsStorage) PutRecord(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "storage/redis/PutRecord"

	var err error
	if ttl <= 0 {
		err = s.rdb.Del(ctx, s.key(key)).Err()
	} else {
		err = s.rdb.Set(ctx, s.key(key), value, ttl).Err()
	}

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает клиент Redis.
func (s *RecordsStorage) Close() { _ = s.rdb.Close() }

var _ storage.RecordsStorage = (*RecordsStorage)(nil)
