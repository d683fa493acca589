package profile

import (
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

// AfterImageExpiryDays — возраст lastAfterUpdate в целых сутках,
// начиная с которого фото «после» скрывается.
const AfterImageExpiryDays = 15

const day = 24 * time.Hour

// CheckAfterImageExpiry очищает AfterImage, если с LastAfterUpdate прошло
// AfterImageExpiryDays и более целых суток. LastAfterUpdate не трогается,
// поэтому новый цикл загрузки можно начать в любой момент.
// Повторный вызов на уже очищенном профиле ничего не меняет.
func CheckAfterImageExpiry(p models.Profile, now time.Time) models.Profile {
	if AfterImageExpired(p, now) {
		p.AfterImage = nil
	}

	return p
}

// AfterImageExpired сообщает, что фото «после» присутствует и должно быть скрыто.
func AfterImageExpired(p models.Profile, now time.Time) bool {
	if p.AfterImage == nil || p.LastAfterUpdate == nil {
		return false
	}

	return wholeDays(now.Sub(*p.LastAfterUpdate)) >= AfterImageExpiryDays
}

// AfterImageExpiresAt возвращает момент, когда текущее фото «после» будет скрыто.
func AfterImageExpiresAt(p models.Profile) (time.Time, bool) {
	if p.AfterImage == nil || p.LastAfterUpdate == nil {
		return time.Time{}, false
	}

	return p.LastAfterUpdate.Add(AfterImageExpiryDays * day), true
}

// wholeDays — floor(миллисекунды / миллисекунды в сутках), в том числе для отрицательных интервалов.
func wholeDays(d time.Duration) int64 {
	ms := d.Milliseconds()
	perDay := day.Milliseconds()

	days := ms / perDay
	if ms%perDay != 0 && ms < 0 {
		days--
	}

	return days
}
