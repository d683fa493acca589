// memory — хранилище записей в памяти процесса (локальный запуск и тесты).
// Записи теряются при рестарте.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

type entry struct {
	value     string
	expiresAt time.Time
}

type RecordsStorage struct {
	mu      sync.RWMutex
	records map[string]entry
	now     func() time.Time
}

type Option func(*RecordsStorage)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *RecordsStorage) { s.now = now }
}

func New(opts ...Option) *RecordsStorage {
	s := &RecordsStorage{
		records: make(map[string]entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RecordsStorage) Record(_ context.Context, key string) (string, error) {
	const op = "storage/memory/Record"

	s.mu.RLock()
	e, ok := s.records[key]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundRecord)
	}

	return e.value, nil
}

// PutRecord сохраняет запись; попутно вычищает истёкшие.
func (s *RecordsStorage) PutRecord(_ context.Context, key, value string, ttl time.Duration) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.records {
		if !now.Before(e.expiresAt) {
			delete(s.records, k)
		}
	}

	if ttl <= 0 {
		delete(s.records, key)
		return nil
	}

	s.records[key] = entry{value: value, expiresAt: now.Add(ttl)}

	return nil
}

// Len — количество хранимых (в т.ч. ещё не вычищенных) записей.
func (s *RecordsStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *RecordsStorage) Close() {}

var _ storage.RecordsStorage = (*RecordsStorage)(nil)
