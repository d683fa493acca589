package service

// Тесты ProfileStore (internal/service/store.go).
//
//  Проверяем:
//  - round-trip сохранения/чтения;
//  - «до» — первое фото навсегда, «после» — заменяется и обновляет lastAfterUpdate;
//  - истечение фото «после» через 15 суток с пересохранением записи;
//  - пустой профиль при ошибке хранилища и битой записи (ошибки не выходят наружу);
//  - no-op для пустых загрузок и неизвестных полей (без записи в хранилище);
//  - надёжную загрузку: маппинг ошибок Photos и stored-ссылку.
//
// Примечание: моки сгенерированы в пакете /mocks (MockRecords, MockPhotos).

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/fittrack-dashboard/internal/config"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/preview"
	"github.com/pribylovaa/fittrack-dashboard/internal/profile"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/memory"
	"github.com/pribylovaa/fittrack-dashboard/mocks"
	"github.com/stretchr/testify/require"
)

const (
	recordKey = "userProfile"
	retention = 30 * 24 * time.Hour
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time         { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *testClock {
	return &testClock{t: time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)}
}

func testConfig() *config.Config {
	return &config.Config{Profile: config.ProfileConfig{Retention: retention}}
}

// newMemoryStore — ProfileStore поверх хранилища в памяти с общими часами.
func newMemoryStore(t *testing.T, clk *testClock, photos storage.Photos) (*ProfileStore, *memory.RecordsStorage) {
	t.Helper()

	records := memory.New(memory.WithClock(clk.Now))
	previews := preview.New(time.Hour, 1<<20, 16, preview.WithClock(clk.Now))
	svc := New(testConfig(), previews, photos, WithClock(clk.Now))

	return svc.Store(records, recordKey), records
}

func png() *models.Upload {
	return &models.Upload{Filename: "p.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")}
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	clk := newClock()
	ps, _ := newMemoryStore(t, clk, nil)
	ctx := context.Background()

	age, h, w := 34, 172.0, 68.5
	p := models.Profile{
		Name: "Jane", Email: "jane@example.com", Phone: "+251911000000",
		Age: &age, Gender: "female", Height: &h, Weight: &w,
		Goal: "maintain", Membership: "Premium",
	}

	ps.Save(ctx, p)
	snap := ps.Load(ctx)

	require.Equal(t, p, snap.Profile)
	require.True(t, snap.Complete)
	require.Equal(t, 100, snap.Completion)
	require.NotNil(t, snap.BMI)
	require.InDelta(t, 23.2, snap.BMI.Value, 1e-9)
	require.Equal(t, models.BMINormal, snap.BMI.Category)
}

func TestStore_Load_Empty(t *testing.T) {
	ps, _ := newMemoryStore(t, newClock(), nil)

	snap := ps.Load(context.Background())
	require.Equal(t, models.Profile{}, snap.Profile)
	require.Nil(t, snap.BMI)
	require.False(t, snap.Complete)
}

func TestStore_SetField_SavesAndDerives(t *testing.T) {
	ps, _ := newMemoryStore(t, newClock(), nil)
	ctx := context.Background()

	ps.SetField(ctx, profile.FieldHeight, "180")
	snap := ps.SetField(ctx, profile.FieldWeight, "75")

	require.NotNil(t, snap.BMI)
	require.InDelta(t, 23.1, snap.BMI.Value, 1e-9)
	require.False(t, snap.Complete)

	ps.SetFields(ctx, map[string]string{profile.FieldName: "Jane", profile.FieldEmail: "j@x.io"})
	require.True(t, ps.Load(ctx).Complete)
}

// Первое фото «до» сохраняется навсегда.
func TestStore_UploadBefore_FirstWriteWins(t *testing.T) {
	ps, _ := newMemoryStore(t, newClock(), nil)
	ctx := context.Background()

	first := ps.UploadImage(ctx, models.SlotBefore, png())
	require.NotNil(t, first.Profile.BeforeImage)
	require.Equal(t, models.ImagePending, first.Profile.BeforeImage.State)
	require.True(t, strings.HasPrefix(first.Profile.BeforeImage.URI, preview.PathPrefix))

	second := ps.UploadImage(ctx, models.SlotBefore, png())
	require.Equal(t, first.Profile.BeforeImage, second.Profile.BeforeImage)
	require.Equal(t, first.Profile.BeforeImage, ps.Load(ctx).Profile.BeforeImage)
}

// Фото «после» заменяется, lastAfterUpdate = время загрузки.
func TestStore_UploadAfter_ReplacesAndStamps(t *testing.T) {
	clk := newClock()
	ps, _ := newMemoryStore(t, clk, nil)
	ctx := context.Background()

	first := ps.UploadImage(ctx, models.SlotAfter, png())
	require.NotNil(t, first.Profile.AfterImage)
	require.True(t, first.Profile.LastAfterUpdate.Equal(clk.Now()))
	require.NotNil(t, first.AfterImageExpiresAt)
	require.True(t, first.AfterImageExpiresAt.Equal(clk.Now().Add(15*24*time.Hour)))

	clk.Advance(3 * 24 * time.Hour)
	second := ps.UploadImage(ctx, models.SlotAfter, png())
	require.NotEqual(t, first.Profile.AfterImage.URI, second.Profile.AfterImage.URI)
	require.True(t, second.Profile.LastAfterUpdate.Equal(clk.Now()))
}

// Через 15 суток фото «после» скрывается, запись пересохраняется, метка времени остаётся.
func TestStore_AfterImage_ExpiresAndResaves(t *testing.T) {
	clk := newClock()
	ps, records := newMemoryStore(t, clk, nil)
	ctx := context.Background()

	uploaded := ps.UploadImage(ctx, models.SlotAfter, png())
	stamp := *uploaded.Profile.LastAfterUpdate

	clk.Advance(14 * 24 * time.Hour)
	require.NotNil(t, ps.Load(ctx).Profile.AfterImage)

	clk.Advance(24 * time.Hour)
	snap := ps.Load(ctx)
	require.Nil(t, snap.Profile.AfterImage)
	require.True(t, snap.Profile.LastAfterUpdate.Equal(stamp))
	require.Nil(t, snap.AfterImageExpiresAt)

	raw, err := records.Record(ctx, recordKey)
	require.NoError(t, err)
	stored, err := profile.Decode(raw)
	require.NoError(t, err)
	require.Nil(t, stored.AfterImage)
	require.NotNil(t, stored.LastAfterUpdate)
}

func TestStore_UploadImage_NoOps(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	svc := New(testConfig(), preview.New(time.Hour, 2, 0), nil)
	ps := svc.Store(records, recordKey)
	ctx := context.Background()

	// Ни одной записи: PutRecord не ожидается.
	records.EXPECT().Record(gomock.Any(), recordKey).Return("", storage.ErrNotFoundRecord).Times(4)

	require.Equal(t, models.Profile{}, ps.UploadImage(ctx, models.SlotAfter, nil).Profile)
	require.Equal(t, models.Profile{}, ps.UploadImage(ctx, models.SlotAfter, &models.Upload{}).Profile)
	require.Equal(t, models.Profile{}, ps.UploadImage(ctx, models.ImageSlot("side"), png()).Profile)
	// Превью больше лимита аллокатора.
	require.Equal(t, models.Profile{}, ps.UploadImage(ctx, models.SlotBefore, png()).Profile)
}

func TestStore_SetField_UnknownDoesNotSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	ps := New(testConfig(), preview.New(time.Hour, 0, 0), nil).Store(records, recordKey)

	records.EXPECT().Record(gomock.Any(), recordKey).Return(`{"name":"A"}`, nil)

	snap := ps.SetField(context.Background(), "afterImage", "http://x")
	require.Equal(t, "A", snap.Profile.Name)
	require.Nil(t, snap.Profile.AfterImage)
}

// Ошибка хранилища и битая запись дают пустой профиль без ошибки.
func TestStore_Load_Failures(t *testing.T) {
	for name, rec := range map[string]struct {
		raw string
		err error
	}{
		"storage error": {err: errors.New("connection reset")},
		"malformed":     {raw: "{not json"},
		"wrong shape":   {raw: `{"height":"tall"}`},
	} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			records := mocks.NewMockRecords(ctrl)
			ps := New(testConfig(), preview.New(time.Hour, 0, 0), nil).Store(records, recordKey)

			records.EXPECT().Record(gomock.Any(), recordKey).Return(rec.raw, rec.err)

			require.Equal(t, models.Profile{}, ps.Load(context.Background()).Profile)
		})
	}
}

// Ошибка записи проглатывается, возвращается новое состояние.
func TestStore_Save_ErrorSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	records := mocks.NewMockRecords(ctrl)
	ps := New(testConfig(), preview.New(time.Hour, 0, 0), nil).Store(records, recordKey)

	records.EXPECT().Record(gomock.Any(), recordKey).Return("", storage.ErrNotFoundRecord)
	records.EXPECT().
		PutRecord(gomock.Any(), recordKey, gomock.Any(), retention).
		DoAndReturn(func(_ context.Context, _, value string, _ time.Duration) error {
			p, err := profile.Decode(value)
			require.NoError(t, err)
			require.Equal(t, "Jane", p.Name)
			return storage.ErrRecordTooLarge
		})

	snap := ps.SetField(context.Background(), profile.FieldName, "Jane")
	require.Equal(t, "Jane", snap.Profile.Name)
}

func TestStore_ConfirmPhotoUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without s3", func(t *testing.T) {
		ps, _ := newMemoryStore(t, newClock(), nil)

		_, err := ps.ConfirmPhotoUpload(ctx, "c1", models.SlotAfter, "k")
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("invalid argument", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ps, _ := newMemoryStore(t, newClock(), mocks.NewMockPhotos(ctrl))

		_, err := ps.ConfirmPhotoUpload(ctx, "c1", models.ImageSlot("x"), "k")
		require.ErrorIs(t, err, ErrInvalidArgument)

		_, err = ps.ConfirmPhotoUpload(ctx, "", models.SlotAfter, "k")
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("storage errors mapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		photos := mocks.NewMockPhotos(ctrl)
		ps, _ := newMemoryStore(t, newClock(), photos)

		photos.EXPECT().CheckPhotoUpload(gomock.Any(), "c1", models.SlotAfter, "k1").Return("", storage.ErrNotFoundPhoto)
		photos.EXPECT().CheckPhotoUpload(gomock.Any(), "c1", models.SlotAfter, "k2").Return("", storage.ErrInvalidArgument)
		photos.EXPECT().CheckPhotoUpload(gomock.Any(), "c1", models.SlotAfter, "k3").Return("", errors.New("s3 down"))

		_, err := ps.ConfirmPhotoUpload(ctx, "c1", models.SlotAfter, "k1")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = ps.ConfirmPhotoUpload(ctx, "c1", models.SlotAfter, "k2")
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = ps.ConfirmPhotoUpload(ctx, "c1", models.SlotAfter, "k3")
		require.ErrorIs(t, err, ErrInternal)
	})

	t.Run("stored reference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		photos := mocks.NewMockPhotos(ctrl)
		clk := newClock()
		ps, _ := newMemoryStore(t, clk, photos)

		const key = "progress/c1/after/x.png"
		photos.EXPECT().CheckPhotoUpload(gomock.Any(), "c1", models.SlotAfter, key).Return("http://cdn/"+key, nil)

		snap, err := ps.ConfirmPhotoUpload(ctx, "c1", models.SlotAfter, key)
		require.NoError(t, err)
		require.Equal(t, &models.ImageRef{URI: "http://cdn/" + key, State: models.ImageStored, Key: key}, snap.Profile.AfterImage)
		require.True(t, snap.Profile.LastAfterUpdate.Equal(clk.Now()))
	})

	t.Run("before already set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		photos := mocks.NewMockPhotos(ctrl)
		ps, _ := newMemoryStore(t, newClock(), photos)

		first := ps.UploadImage(ctx, models.SlotBefore, png())

		// CheckPhotoUpload не вызывается.
		snap, err := ps.ConfirmPhotoUpload(ctx, "c1", models.SlotBefore, "progress/c1/before/y.png")
		require.NoError(t, err)
		require.Equal(t, first.Profile.BeforeImage, snap.Profile.BeforeImage)
	})
}
