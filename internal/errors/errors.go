// errors стандартизирует ответы об ошибках HTTP API профиля.
// На вход он принимает ошибку сервисного слоя (или gRPC-статус),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Ошибки сервиса сначала сводятся к gRPC-коду, дальше работает одна таблица baseFromCode.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/requestid"
	"github.com/pribylovaa/fittrack-dashboard/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
// err == nil — программная ошибка вызова: 500/internal, чтобы не послать "200 OK" с телом ошибки.
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := baseFromCode(codeOf(err))

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get(requestid.Header); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// codeOf сводит ошибку к gRPC-коду:
//   - ошибки сервиса по errors.Is;
//   - отмена/дедлайн контекста;
//   - gRPC-статус как есть;
//   - прочее -> Internal.
func codeOf(err error) codes.Code {
	switch {
	case err == nil:
		return codes.Internal
	case stderrors.Is(err, service.ErrInvalidArgument):
		return codes.InvalidArgument
	case stderrors.Is(err, service.ErrNotFound):
		return codes.NotFound
	case stderrors.Is(err, service.ErrUnavailable):
		return codes.Unimplemented
	case stderrors.Is(err, context.Canceled):
		return codes.Canceled
	case stderrors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}

	if st, ok := status.FromError(err); ok {
		return st.Code()
	}

	return codes.Internal
}

// baseFromCode — базовый маппинг gRPC -> HTTP/FE-код/сообщение:
//   - InvalidArgument (битое тело, слот, тип/размер фото) -> 400
//   - NotFound (объект фото или превью) -> 404
//   - AlreadyExists -> 409
//   - Unauthenticated -> 401
//   - Canceled -> 499 (клиент закрыл соединение)
//   - DeadlineExceeded -> 504
//   - Unavailable -> 503
//   - Unimplemented (надёжная загрузка не сконфигурирована) -> 501
//   - прочее -> 500/internal
func baseFromCode(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.AlreadyExists:
		return http.StatusConflict, "already_exists", "already exists"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "durable uploads are not configured"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
