package profile

import (
	"testing"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)

func withAfter(last time.Time) models.Profile {
	return models.Profile{
		AfterImage:      &models.ImageRef{URI: "/previews/a", State: models.ImagePending},
		LastAfterUpdate: &last,
	}
}

// Ровно 15 суток: фото очищается один раз, повторный вызов — no-op.
func TestCheckAfterImageExpiry_ExactlyFifteenDays(t *testing.T) {
	t.Parallel()

	last := now.Add(-15 * 24 * time.Hour)
	p := withAfter(last)

	got := CheckAfterImageExpiry(p, now)
	require.Nil(t, got.AfterImage)
	require.NotNil(t, got.LastAfterUpdate)
	require.True(t, got.LastAfterUpdate.Equal(last), "lastAfterUpdate сохраняется")

	again := CheckAfterImageExpiry(got, now)
	require.Equal(t, got, again)
}

// 14 суток: фото остаётся без изменений.
func TestCheckAfterImageExpiry_FourteenDays(t *testing.T) {
	t.Parallel()

	p := withAfter(now.Add(-14 * 24 * time.Hour))

	got := CheckAfterImageExpiry(p, now)
	require.Equal(t, p, got)
}

// Почти 15 суток (на миллисекунду меньше) — ещё 14 целых суток.
func TestCheckAfterImageExpiry_JustBeforeThreshold(t *testing.T) {
	t.Parallel()

	p := withAfter(now.Add(-15*24*time.Hour + time.Millisecond))

	require.NotNil(t, CheckAfterImageExpiry(p, now).AfterImage)
}

func TestCheckAfterImageExpiry_NoTimestamp(t *testing.T) {
	t.Parallel()

	p := models.Profile{AfterImage: &models.ImageRef{URI: "x", State: models.ImageStored}}

	require.Equal(t, p, CheckAfterImageExpiry(p, now.Add(1000*24*time.Hour)))
}

// Метка в будущем (часы клиента/сервера разошлись) — не истекло.
func TestCheckAfterImageExpiry_FutureTimestamp(t *testing.T) {
	t.Parallel()

	p := withAfter(now.Add(3 * 24 * time.Hour))

	require.NotNil(t, CheckAfterImageExpiry(p, now).AfterImage)
}

func TestAfterImageExpiresAt(t *testing.T) {
	t.Parallel()

	last := now.Add(-2 * 24 * time.Hour)
	at, ok := AfterImageExpiresAt(withAfter(last))
	require.True(t, ok)
	require.True(t, at.Equal(last.Add(15*24*time.Hour)))

	_, ok = AfterImageExpiresAt(models.Profile{LastAfterUpdate: &last})
	require.False(t, ok)
}

func TestWholeDays(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 0, wholeDays(23*time.Hour))
	require.EqualValues(t, 1, wholeDays(24*time.Hour))
	require.EqualValues(t, -1, wholeDays(-time.Hour))
	require.EqualValues(t, -1, wholeDays(-24*time.Hour))
	require.EqualValues(t, -2, wholeDays(-25*time.Hour))
}
