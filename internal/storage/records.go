// storage содержит контракты слоя хранилищ сервиса профиля.
//
// records.go - текстовые записи «ключ -> значение» с ограниченным сроком жизни
// (cookie браузера, память, Redis, MongoDB, PostgreSQL).
// photos.go - контракт надёжной загрузки фотографий в S3/MinIO.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFoundRecord — запись отсутствует или истекла.
	ErrNotFoundRecord = errors.New("record not found")
	// ErrRecordTooLarge — значение не помещается в хранилище (лимит cookie).
	ErrRecordTooLarge = errors.New("record too large")
	// ErrSchemaMissing — в БД нет таблицы записей (миграции не применены).
	ErrSchemaMissing = errors.New("schema missing")
)

// Records — контракт хранилища записей.
type Records interface {
	// Record возвращает значение по ключу; ErrNotFoundRecord, если записи нет или она истекла.
	Record(ctx context.Context, key string) (string, error)
	// PutRecord сохраняет значение с временем жизни ttl, перезаписывая прежнее.
	PutRecord(ctx context.Context, key, value string, ttl time.Duration) error
}

// RecordsStorage — серверное хранилище записей, владеющее соединением.
type RecordsStorage interface {
	Records
	Close()
}
