// service содержит бизнес-логику сервиса профиля:
// - ProfileStore: чтение/запись профиля, правила фотографий прогресса, истечение фото «после»;
// - надёжная загрузка фото (presigned URL и подтверждение загрузки).
package service

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/config"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные (слот, тип, размер, ключ).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — объект не найден.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable — надёжная загрузка не сконфигурирована.
	ErrUnavailable = errors.New("unavailable")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")
)

// Previews — выдача временных ссылок на загруженные файлы.
type Previews interface {
	Allocate(ctx context.Context, u *models.Upload) (string, error)
}

// Service — описывает бизнес-логику сервиса профиля.
type Service struct {
	retention time.Duration
	previews  Previews
	photos    storage.Photos
	now       func() time.Time
}

type Option func(*Service)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создает новый экземпляр Service. photos может быть nil:
// тогда надёжная загрузка возвращает ErrUnavailable.
func New(cfg *config.Config, previews Previews, photos storage.Photos, opts ...Option) *Service {
	s := &Service{
		retention: cfg.Profile.Retention,
		previews:  previews,
		photos:    photos,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Store возвращает ProfileStore поверх хранилища записей и ключа записи.
func (s *Service) Store(records storage.Records, key string) *ProfileStore {
	return &ProfileStore{svc: s, records: records, key: key}
}

// DurableUploads сообщает, что надёжная загрузка доступна.
func (s *Service) DurableUploads() bool { return s.photos != nil }
