// models содержит доменные сущности сервиса профиля участника клуба.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"encoding/json"
	"time"
)

// ImageSlot — слот фотографии прогресса.
type ImageSlot string

const (
	SlotBefore ImageSlot = "before"
	SlotAfter  ImageSlot = "after"
)

// Valid сообщает, что слот входит в допустимый набор.
func (s ImageSlot) Valid() bool {
	return s == SlotBefore || s == SlotAfter
}

// ImageState — состояние ссылки на фотографию.
type ImageState string

const (
	// ImagePending — локальное превью, не сохранённое надёжно:
	// ссылка перестаёт работать после истечения TTL превью или рестарта.
	ImagePending ImageState = "pending"
	// ImageStored — объект лежит в S3/MinIO, ссылка стабильна.
	ImageStored ImageState = "stored"
)

// ImageRef — ссылка на загруженную фотографию.
type ImageRef struct {
	URI   string     `json:"uri"`
	State ImageState `json:"state"`
	Key   string     `json:"key,omitempty"`
}

// UnmarshalJSON принимает и объект, и голую строку с URI:
// в старых записях фотография хранилась строкой. Строка читается как превью.
func (r *ImageRef) UnmarshalJSON(b []byte) error {
	var uri string
	if err := json.Unmarshal(b, &uri); err == nil {
		*r = ImageRef{URI: uri, State: ImagePending}
		return nil
	}

	type plain ImageRef

	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*r = ImageRef(v)

	return nil
}

// Profile — фитнес-профиль участника.
// Строковые поля: пустая строка означает «не задано».
// Числовые поля и метки времени: nil означает «не задано».
// BMI и категория не хранятся, см. Snapshot.
type Profile struct {
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Age             *int       `json:"age,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	Height          *float64   `json:"height,omitempty"` // см
	Weight          *float64   `json:"weight,omitempty"` // кг
	Goal            string     `json:"goal,omitempty"`
	Membership      string     `json:"membership,omitempty"`
	BeforeImage     *ImageRef  `json:"beforeImage,omitempty"`
	AfterImage      *ImageRef  `json:"afterImage,omitempty"`
	LastAfterUpdate *time.Time `json:"lastAfterUpdate,omitempty"`
}

// BMICategory — категория индекса массы тела.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// BMI — производное значение: индекс с точностью до десятых и категория.
type BMI struct {
	Value    float64
	Category BMICategory
}

// Snapshot — профиль вместе с производными полями на момент чтения.
type Snapshot struct {
	Profile    Profile
	BMI        *BMI
	Complete   bool
	Completion int
	// AfterImageExpiresAt — когда текущее фото «после» будет скрыто (nil, если фото нет).
	AfterImageExpiresAt *time.Time
}

// Upload — загруженный пользователем файл.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
