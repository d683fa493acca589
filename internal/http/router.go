package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/pribylovaa/fittrack-dashboard/internal/http/handlers"
	"github.com/pribylovaa/fittrack-dashboard/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// ClientCookie — имя cookie идентификатора браузера.
	ClientCookie  string
	SecureCookies bool
	// AllowedOrigins — origin'ы дашборда для CORS (с credentials).
	AllowedOrigins []string
	// Ready — готовность к трафику для /healthz; nil означает "всегда готов".
	Ready func() bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
// Пробы и /metrics живут вне цепочки middleware.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready != nil && !opts.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Handle("/metrics", promhttp.Handler())

	root.Group(func(api chi.Router) {
		// Middleware (внешний -> внутренний).
		api.Use(
			middleware.Recover(),            // безопасно ловим паники
			middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
			middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
			middleware.Metrics(),            // счётчики по шаблону маршрута
			middleware.ClientID(opts.ClientCookie, opts.SecureCookies),
		)
		if opts.Timeout > 0 {
			api.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
		}

		if opts.BasePath != "" {
			api.Route(opts.BasePath, func(sub chi.Router) { registerRoutes(sub, h) })
			return
		}

		registerRoutes(api, h)
	})

	return cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	}).Handler(root)
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/session", h.SessionStatus)

	// profile
	r.Get("/profile", h.GetProfile)
	r.Patch("/profile", h.PatchProfile)
	r.Post("/profile/images/{slot}", h.UploadImage)
	r.Post("/profile/images/{slot}/presign", h.PhotoPresign)
	r.Post("/profile/images/{slot}/confirm", h.PhotoConfirm)

	// previews
	r.Get("/previews/{id}", h.Preview)
}
