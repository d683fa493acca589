package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	logctx "github.com/pribylovaa/fittrack-dashboard/internal/pkg/log"
)

type clientIDKey struct{}

// clientIDMaxAge — срок жизни cookie идентификатора браузера (год).
const clientIDMaxAge = 365 * 24 * time.Hour

// ClientID выдаёт браузеру долгоживущий случайный идентификатор в cookie name
// и кладёт его в контекст. Серверные хранилища ключуют запись профиля этим id.
// Значение cookie, не являющееся UUID, заменяется новым.
func ClientID(name string, secure bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(name); err == nil {
				if u, err := uuid.Parse(c.Value); err == nil {
					id = u.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientIDMaxAge / time.Second),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), clientIDKey{}, id)
			ctx = logctx.With(ctx, "client_id", id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFrom возвращает идентификатор браузера или пустую строку.
func ClientIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}
