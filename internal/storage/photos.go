package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

var (
	// ErrNotFoundPhoto — объект (ключ) отсутствует в бакете.
	ErrNotFoundPhoto = errors.New("photo not found")
	// ErrInvalidArgument — нарушены ограничения запроса (слот/тип/размер/ключ).
	ErrInvalidArgument = errors.New("invalid argument")
)

// UploadInfo — информация для клиента о presigned PUT загрузке.
//   - UploadURL: конечная URL для PUT-запроса.
//   - PhotoKey: ключ будущего объекта в бакете.
//   - Expires: время жизни подписи.
//   - RequiredHeader: заголовки, которые клиент ОБЯЗАН передать при PUT.
type UploadInfo struct {
	UploadURL      string
	PhotoKey       string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// Photos — контракт генерации presigned URL и подтверждения факта загрузки фото прогресса.
type Photos interface {
	// PhotoUploadURL генерирует presigned PUT. Внутри — валидация слота, contentType и contentLength.
	PhotoUploadURL(ctx context.Context, ownerID string, slot models.ImageSlot, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckPhotoUpload проверяет факт загрузки по key (наличие, тип, размер)
	// и возвращает публичный URL объекта (пустой, если PublicBaseURL не задан).
	CheckPhotoUpload(ctx context.Context, ownerID string, slot models.ImageSlot, key string) (publicURL string, err error)
}
