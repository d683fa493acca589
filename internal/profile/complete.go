package profile

import (
	"strings"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

// IsComplete — профиль заполнен, если заданы имя, email, рост и вес.
// Используется только для подсказки в интерфейсе и не блокирует запись.
func IsComplete(p models.Profile) bool {
	return present(p.Name) && present(p.Email) && nonZero(p.Height) && nonZero(p.Weight)
}

// Completion — доля заполненных скалярных полей профиля в процентах (0..100).
func Completion(p models.Profile) int {
	filled := 0
	checks := []bool{
		present(p.Name),
		present(p.Email),
		present(p.Phone),
		p.Age != nil && *p.Age != 0,
		present(p.Gender),
		nonZero(p.Height),
		nonZero(p.Weight),
		present(p.Goal),
		present(p.Membership),
	}

	for _, ok := range checks {
		if ok {
			filled++
		}
	}

	return filled * 100 / len(checks)
}

// Snapshot собирает профиль вместе с производными полями.
func Snapshot(p models.Profile) models.Snapshot {
	snap := models.Snapshot{
		Profile:    p,
		BMI:        DeriveBMI(p),
		Complete:   IsComplete(p),
		Completion: Completion(p),
	}

	if at, ok := AfterImageExpiresAt(p); ok {
		snap.AfterImageExpiresAt = &at
	}

	return snap
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

func nonZero(v *float64) bool { return v != nil && *v != 0 }
