package profile

import (
	"math"
	"strconv"
	"strings"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

// Имена редактируемых полей (совпадают с ключами записи).
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldHeight     = "height"
	FieldWeight     = "weight"
	FieldGoal       = "goal"
	FieldMembership = "membership"
)

// ApplyField записывает значение поля с приведением типа.
// Текстовые поля сохраняются как есть (с обрезкой пробелов), пустая строка очищает поле.
// Числовые поля должны разбираться как конечное число, иначе поле сбрасывается.
// Второе значение — false для неизвестного/нередактируемого поля (профиль не меняется):
// фотографии и lastAfterUpdate меняются только своими операциями.
func ApplyField(p models.Profile, field, value string) (models.Profile, bool) {
	value = strings.TrimSpace(value)

	switch field {
	case FieldName:
		p.Name = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldGender:
		p.Gender = value
	case FieldGoal:
		p.Goal = value
	case FieldMembership:
		p.Membership = value
	case FieldAge:
		p.Age = nil
		if f, ok := parseNumber(value); ok {
			age := int(f)
			p.Age = &age
		}
	case FieldHeight:
		p.Height = nil
		if f, ok := parseNumber(value); ok {
			p.Height = &f
		}
	case FieldWeight:
		p.Weight = nil
		if f, ok := parseNumber(value); ok {
			p.Weight = &f
		}
	default:
		return p, false
	}

	return p, true
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
