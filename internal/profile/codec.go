package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

// Encode сериализует профиль в текст записи хранилища (JSON).
func Encode(p models.Profile) (string, error) {
	const op = "profile/Encode"

	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(b), nil
}

// Decode разбирает текст записи. Пустая строка и любой мусор — ошибка,
// вызывающая сторона сама решает, что делать (ProfileStore подставляет пустой профиль).
// Ссылка на фотографию с пустым URI считается отсутствующей.
func Decode(raw string) (models.Profile, error) {
	const op = "profile/Decode"

	var p models.Profile

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Profile{}, fmt.Errorf("%s: empty record", op)
	}

	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	if p.BeforeImage != nil && p.BeforeImage.URI == "" {
		p.BeforeImage = nil
	}
	if p.AfterImage != nil && p.AfterImage.URI == "" {
		p.AfterImage = nil
	}

	return p, nil
}
