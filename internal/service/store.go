package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/metrics"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/log"
	"github.com/pribylovaa/fittrack-dashboard/internal/profile"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

// ProfileStore — профиль одного браузера поверх хранилища записей.
// Операции не возвращают ошибок хранилища: сбой чтения даёт пустой профиль,
// сбой записи только логируется. Каждая операция заново применяет
// проверку истечения фото «после» и пересчитывает производные поля.
type ProfileStore struct {
	svc     *Service
	records storage.Records
	key     string
}

// Load читает профиль. Если проверка истечения убрала фото «после»,
// очищенный профиль сразу сохраняется.
func (ps *ProfileStore) Load(ctx context.Context) models.Snapshot {
	return ps.snapshot(ps.load(ctx))
}

// Save сохраняет профиль как есть (best effort).
func (ps *ProfileStore) Save(ctx context.Context, p models.Profile) {
	ps.save(ctx, p)
}

// SetField меняет одно скалярное поле и сохраняет профиль.
// Неизвестные поля и поля фотографий игнорируются.
func (ps *ProfileStore) SetField(ctx context.Context, field, value string) models.Snapshot {
	return ps.SetFields(ctx, map[string]string{field: value})
}

// SetFields применяет набор полей в порядке имён и сохраняет профиль один раз.
func (ps *ProfileStore) SetFields(ctx context.Context, fields map[string]string) models.Snapshot {
	const op = "service/store/SetFields"

	p := ps.load(ctx)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	for _, name := range names {
		var ok bool
		if p, ok = profile.ApplyField(p, name, fields[name]); !ok {
			log.From(ctx).Debug("field ignored", "op", op, "field", name)
			continue
		}
		changed = true
	}

	if changed {
		ps.save(ctx, p)
	}

	return ps.snapshot(p)
}

// UploadImage записывает фото в слот.
//   - пустой файл или неизвестный слот: no-op;
//   - «до» уже задано: no-op (первое фото сохраняется навсегда);
//   - «после»: заменяет прежнее и обновляет lastAfterUpdate.
//
// Ссылка указывает на локальное превью в состоянии pending.
func (ps *ProfileStore) UploadImage(ctx context.Context, slot models.ImageSlot, u *models.Upload) models.Snapshot {
	const op = "service/store/UploadImage"

	lg := log.From(ctx).With("op", op, "slot", string(slot))
	p := ps.load(ctx)

	if u == nil || len(u.Data) == 0 || !slot.Valid() {
		lg.Debug("upload ignored: no file or bad slot")
		metrics.ImageUploads.WithLabelValues(string(slot), "ignored").Inc()

		return ps.snapshot(p)
	}

	if slot == models.SlotBefore && p.BeforeImage != nil {
		lg.Debug("upload ignored: before image already set")
		metrics.ImageUploads.WithLabelValues(string(slot), "ignored").Inc()

		return ps.snapshot(p)
	}

	uri, err := ps.svc.previews.Allocate(ctx, u)
	if err != nil {
		lg.Warn("preview allocation failed", "err", err, "size", len(u.Data))
		metrics.ImageUploads.WithLabelValues(string(slot), "rejected").Inc()

		return ps.snapshot(p)
	}

	p = ps.setImage(p, slot, &models.ImageRef{URI: uri, State: models.ImagePending})
	ps.save(ctx, p)
	metrics.ImageUploads.WithLabelValues(string(slot), "preview").Inc()

	return ps.snapshot(p)
}

// ConfirmPhotoUpload подтверждает загрузку объекта в S3/MinIO и записывает
// надёжную ссылку в слот по тем же правилам, что и UploadImage.
func (ps *ProfileStore) ConfirmPhotoUpload(ctx context.Context, ownerID string, slot models.ImageSlot, key string) (models.Snapshot, error) {
	const op = "service/store/ConfirmPhotoUpload"

	lg := log.From(ctx).With("op", op, "slot", string(slot))

	if ps.svc.photos == nil {
		return models.Snapshot{}, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	if ownerID == "" || !slot.Valid() || key == "" {
		lg.Warn("invalid argument: empty owner/key or bad slot")

		return models.Snapshot{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	p := ps.load(ctx)

	if slot == models.SlotBefore && p.BeforeImage != nil {
		lg.Debug("confirm ignored: before image already set")
		metrics.ImageUploads.WithLabelValues(string(slot), "ignored").Inc()

		return ps.snapshot(p), nil
	}

	publicURL, err := ps.svc.photos.CheckPhotoUpload(ctx, ownerID, slot, key)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(string(slot), "rejected").Inc()

		return models.Snapshot{}, fmt.Errorf("%s: %w", op, mapPhotoErr(ctx, op, err))
	}

	uri := publicURL
	if uri == "" {
		uri = key
	}

	p = ps.setImage(p, slot, &models.ImageRef{URI: uri, State: models.ImageStored, Key: key})
	ps.save(ctx, p)
	metrics.ImageUploads.WithLabelValues(string(slot), "stored").Inc()

	return ps.snapshot(p), nil
}

func (ps *ProfileStore) setImage(p models.Profile, slot models.ImageSlot, ref *models.ImageRef) models.Profile {
	switch slot {
	case models.SlotBefore:
		p.BeforeImage = ref
	case models.SlotAfter:
		now := ps.svc.now().UTC().Truncate(time.Millisecond)
		p.AfterImage = ref
		p.LastAfterUpdate = &now
	}

	return p
}

func (ps *ProfileStore) load(ctx context.Context) models.Profile {
	const op = "service/store/load"

	lg := log.From(ctx).With("op", op)

	raw, err := ps.records.Record(ctx, ps.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFoundRecord) {
			lg.Warn("record read failed, using empty profile", "err", err)
			metrics.RecordLoadFailures.WithLabelValues("storage").Inc()
		}

		return models.Profile{}
	}

	p, err := profile.Decode(raw)
	if err != nil {
		lg.Warn("record malformed, using empty profile", "err", err)
		metrics.RecordLoadFailures.WithLabelValues("malformed").Inc()

		return models.Profile{}
	}

	if profile.AfterImageExpired(p, ps.svc.now()) {
		p = profile.CheckAfterImageExpiry(p, ps.svc.now())
		lg.Info("after image expired")
		metrics.AfterImageExpirations.Inc()
		ps.save(ctx, p)
	}

	return p
}

func (ps *ProfileStore) save(ctx context.Context, p models.Profile) {
	const op = "service/store/save"

	lg := log.From(ctx).With("op", op)

	raw, err := profile.Encode(p)
	if err != nil {
		lg.Error("record encode failed", "err", err)
		metrics.RecordSaveFailures.WithLabelValues("encode").Inc()

		return
	}

	if err := ps.records.PutRecord(ctx, ps.key, raw, ps.svc.retention); err != nil {
		reason := "storage"
		if errors.Is(err, storage.ErrRecordTooLarge) {
			reason = "too_large"
		}

		lg.Warn("record write failed", "err", err, "size", len(raw))
		metrics.RecordSaveFailures.WithLabelValues(reason).Inc()
	}
}

func (ps *ProfileStore) snapshot(p models.Profile) models.Snapshot {
	return profile.Snapshot(profile.CheckAfterImageExpiry(p, ps.svc.now()))
}
