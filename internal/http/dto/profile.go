// dto — JSON-представления REST API дашборда.
package dto

import "time"

// Ссылка на фотографию прогресса.
type Image struct {
	URI   string `json:"uri"`
	State string `json:"state"`
	Key   string `json:"key,omitempty"`
}

// Профиль вместе с производными полями.
// Незаданные поля отдаются как null / пустая строка, чтобы форма видела все ключи.
type Profile struct {
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	Age                  *int       `json:"age"`
	Gender               string     `json:"gender"`
	Height               *float64   `json:"height"`
	Weight               *float64   `json:"weight"`
	Goal                 string     `json:"goal"`
	Membership           string     `json:"membership"`
	BeforeImage          *Image     `json:"before_image"`
	AfterImage           *Image     `json:"after_image"`
	LastAfterUpdate      *time.Time `json:"last_after_update"`
	BMI                  *float64   `json:"bmi"`
	BMICategory          string     `json:"bmi_category,omitempty"`
	IsComplete           bool       `json:"is_complete"`
	CompletionPercentage int        `json:"completion_percentage"`
	AfterImageExpiresAt  *time.Time `json:"after_image_expires_at"`
}

// Пресайн на загрузку фото прогресса.
type PhotoPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type PhotoPresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	PhotoKey       string            `json:"photo_key"`
	ExpiresSeconds uint32            `json:"expires_seconds"`
	RequiredHeader map[string]string `json:"required_headers"`
}

type PhotoConfirmRequest struct {
	Key string `json:"key"`
}
