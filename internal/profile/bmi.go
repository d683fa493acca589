// profile содержит чистые функции над моделью профиля:
// расчёт BMI, правило истечения фото «после», признак заполненности,
// применение полей с приведением типов и кодек записи хранилища.
// Пакет не знает ни о хранилище, ни о транспорте, а время передаётся явно.
package profile

import (
	"math"

	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

// Пороги категорий BMI: полуоткрытые интервалы, первое совпадение выигрывает.
const (
	underweightBelow = 18.5
	normalBelow      = 24.9
	overweightBelow  = 29.9
)

// DeriveBMI считает BMI по росту (см) и весу (кг).
// Если рост или вес отсутствуют либо не положительны — возвращает nil.
// Значение округляется до десятых, категория определяется по округлённому значению.
func DeriveBMI(p models.Profile) *models.BMI {
	if !positive(p.Height) || !positive(p.Weight) {
		return nil
	}

	meters := *p.Height / 100
	value := math.Round(*p.Weight/(meters*meters)*10) / 10

	return &models.BMI{Value: value, Category: Category(value)}
}

// Category возвращает категорию для уже округлённого значения BMI.
func Category(value float64) models.BMICategory {
	switch {
	case value < underweightBelow:
		return models.BMIUnderweight
	case value < normalBelow:
		return models.BMINormal
	case value < overweightBelow:
		return models.BMIOverweight
	default:
		return models.BMIObese
	}
}

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}
