package handlers

import (
	"net/http"

	"github.com/pribylovaa/fittrack-dashboard/internal/http/middleware"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage/cookie"
)

// Records выбирает хранилище записи профиля и ключ записи для запроса.
type Records func(w http.ResponseWriter, r *http.Request) (storage.Records, string)

// CookieRecords хранит профиль в cookie самого браузера; ключ — имя записи.
func CookieRecords(recordName string, opts ...cookie.Option) Records {
	return func(w http.ResponseWriter, r *http.Request) (storage.Records, string) {
		return cookie.New(w, r, opts...), recordName
	}
}

// ServerRecords хранит профиль на сервере под ключом "<запись>:<id браузера>".
// Требует мидлвар ClientID выше по цепочке.
func ServerRecords(rs storage.Records, recordName string) Records {
	return func(_ http.ResponseWriter, r *http.Request) (storage.Records, string) {
		return rs, recordName + ":" + middleware.ClientIDFrom(r.Context())
	}
}
