package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

// Record возвращает значение неистёкшей записи.
// Ошибки: storage.ErrNotFoundRecord, storage.ErrSchemaMissing (нет таблицы), иные — как есть.
func (s *RecordsStorage) Record(ctx context.Context, key string) (string, error) {
	const op = "storage/postgres/records/Record"

	q := `
	SELECT value
	FROM profile_records
	WHERE key = $1 AND expires_at > now()
	`

	var value string
	if err := s.db.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundRecord)
		}

		return "", fmt.Errorf("%s: %w", op, classify(err))
	}

	return value, nil
}

// PutRecord вставляет или перезаписывает запись со сроком жизни ttl.
func (s *RecordsStorage) PutRecord(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "storage/postgres/records/PutRecord"

	q := `
	INSERT INTO profile_records (key, value, expires_at, updated_at)
	VALUES ($1, $2, now() + $3::double precision * interval '1 microsecond', now())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
	    expires_at = EXCLUDED.expires_at,
	    updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.Exec(ctx, q, key, value, float64(ttl.Microseconds())); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	return nil
}

// DeleteExpired удаляет истёкшие записи и возвращает их количество.
func (s *RecordsStorage) DeleteExpired(ctx context.Context) (int64, error) {
	const op = "storage/postgres/records/DeleteExpired"

	tag, err := s.db.Exec(ctx, `DELETE FROM profile_records WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, classify(err))
	}

	return tag.RowsAffected(), nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return storage.ErrSchemaMissing
	}

	return err
}
