package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/log"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

type PhotoUploadURLInput struct {
	OwnerID       string
	Slot          models.ImageSlot
	ContentType   string
	ContentLength int64
}

// PhotoUploadURL выдаёт presigned PUT для надёжной загрузки фото.
//
// Ошибки: ErrUnavailable (S3 не сконфигурирован), ErrInvalidArgument, ErrInternal.
func (s *Service) PhotoUploadURL(ctx context.Context, input PhotoUploadURLInput) (*storage.UploadInfo, error) {
	const op = "service/photos/PhotoUploadURL"

	if s.photos == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	lg := log.From(ctx).With("op", op, "slot", string(input.Slot))

	input.ContentType = strings.TrimSpace(input.ContentType)
	if input.OwnerID == "" || !input.Slot.Valid() || input.ContentType == "" || input.ContentLength <= 0 {
		lg.Warn("invalid argument", "content_type", input.ContentType, "content_length", input.ContentLength)

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	info, err := s.photos.PhotoUploadURL(ctx, input.OwnerID, input.Slot, input.ContentType, input.ContentLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPhotoErr(ctx, op, err))
	}

	return info, nil
}

// mapPhotoErr маппит ошибки хранилища фото в ошибки сервиса.
func mapPhotoErr(ctx context.Context, op string, err error) error {
	lg := log.From(ctx).With("op", op)

	switch {
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn("photo rejected", "err", err)
		return ErrInvalidArgument
	case errors.Is(err, storage.ErrNotFoundPhoto):
		lg.Warn("photo not found", "err", err)
		return ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		lg.Error("photo storage error", "err", err)
		return ErrInternal
	}
}
