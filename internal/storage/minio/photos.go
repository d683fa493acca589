package minio

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

const keyRoot = "progress"

// PhotoUploadURL генерирует presigned PUT URL для фото прогресса.
// Ключ имеет вид "progress/<ownerID>/<slot>/<uuid>.<ext>".
func (s *PhotosStorage) PhotoUploadURL(ctx context.Context, ownerID string, slot models.ImageSlot, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/photos/PhotoUploadURL"

	if ownerID == "" || !slot.Valid() {
		return nil, storage.ErrInvalidArgument
	}

	if contentLength <= 0 || contentLength > s.photo.MaxSizeBytes {
		return nil, storage.ErrInvalidArgument
	}

	if !slices.Contains(s.photo.AllowedContentTypes, contentType) {
		return nil, storage.ErrInvalidArgument
	}

	key := path.Join(keyPrefix(ownerID, slot), uuid.NewString()+extension(contentType))

	u, err := s.client.PresignedPutObject(ctx, s.s3.Bucket, key, s.s3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		PhotoKey:  key,
		Expires:   s.s3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

// CheckPhotoUpload подтверждает факт загрузки по key: объект существует,
// лежит под префиксом владельца и слота, укладывается в ограничения размера и типа.
func (s *PhotosStorage) CheckPhotoUpload(ctx context.Context, ownerID string, slot models.ImageSlot, key string) (string, error) {
	const op = "storage/minio/photos/CheckPhotoUpload"

	if ownerID == "" || !slot.Valid() {
		return "", storage.ErrInvalidArgument
	}

	if !strings.HasPrefix(key, keyPrefix(ownerID, slot)+"/") || strings.Contains(key, "..") {
		return "", storage.ErrInvalidArgument
	}

	objInfo, err := s.client.StatObject(ctx, s.s3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return "", storage.ErrNotFoundPhoto
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if objInfo.Size <= 0 || objInfo.Size > s.photo.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if ct := objInfo.ContentType; ct != "" && !slices.Contains(s.photo.AllowedContentTypes, ct) {
		return "", storage.ErrInvalidArgument
	}

	if s.s3.PublicBaseURL == "" {
		return "", nil
	}

	return strings.TrimRight(s.s3.PublicBaseURL, "/") + "/" + key, nil
}

func keyPrefix(ownerID string, slot models.ImageSlot) string {
	return path.Join(keyRoot, ownerID, string(slot))
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
