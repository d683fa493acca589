package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pribylovaa/fittrack-dashboard/internal/clients/authapi"
	"github.com/pribylovaa/fittrack-dashboard/internal/config"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/service"
)

// AuthClient — апстрим аутентификации.
type AuthClient interface {
	Login(ctx context.Context, req authapi.LoginRequest) (*authapi.Session, error)
	Register(ctx context.Context, req authapi.RegisterRequest) (*authapi.Session, error)
}

// PreviewSource — выдача локальных превью по id.
type PreviewSource interface {
	Preview(id string) (*models.Upload, bool)
}

// Deps — зависимости хендлеров.
type Deps struct {
	Service  *service.Service
	Auth     AuthClient
	Previews PreviewSource
	Records  Records
	Session  config.SessionConfig
	// MaxUploadBytes ограничивает размер файла в multipart-загрузке.
	MaxUploadBytes int64
}

// Handlers агрегирует зависимости.
type Handlers struct {
	svc       *service.Service
	auth      AuthClient
	previews  PreviewSource
	records   Records
	session   config.SessionConfig
	maxUpload int64
	validate  *validator.Validate
}

func New(d Deps) *Handlers {
	v := validator.New(validator.WithRequiredStructEnabled())
	// В сообщениях об ошибках используем JSON-имена полей.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handlers{
		svc:       d.Service,
		auth:      d.Auth,
		previews:  d.Previews,
		records:   d.Records,
		session:   d.Session,
		maxUpload: d.MaxUploadBytes,
		validate:  v,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки профиля выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// invalidArgument — локальная ошибка разбора запроса.
func invalidArgument(op string) error {
	return fmt.Errorf("%s: %w", op, service.ErrInvalidArgument)
}

// validationMessage — первое нарушение в виде "<field> is <rule>".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
