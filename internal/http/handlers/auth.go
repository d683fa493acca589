package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/clients/authapi"
	"github.com/pribylovaa/fittrack-dashboard/internal/http/dto"
	"github.com/pribylovaa/fittrack-dashboard/internal/metrics"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/log"
	"github.com/pribylovaa/fittrack-dashboard/internal/pkg/redact"
)

// connectFailure — ответ, когда апстрим недоступен.
const connectFailure = "Could not connect to server"

// LoginUser проксирует вход и при успехе ставит cookie сессии.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(in); err != nil {
		writeAuthError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	sess, err := h.auth.Login(r.Context(), in.ToClient())
	h.finishAuth(w, r, "login", sess, err)
}

// RegisterUser проксирует регистрацию; успешная регистрация сразу открывает сессию.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in dto.RegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(in); err != nil {
		writeAuthError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	sess, err := h.auth.Register(r.Context(), in.ToClient())
	h.finishAuth(w, r, "register", sess, err)
}

// finishAuth пишет ответ прокси:
//   - успех: cookie сессии и {user, expiresAt};
//   - отказ апстрима: его статус и {error};
//   - апстрим недоступен: 502.
func (h *Handlers) finishAuth(w http.ResponseWriter, r *http.Request, action string, sess *authapi.Session, err error) {
	lg := log.From(r.Context()).With("action", action)

	if err != nil {
		var upErr *authapi.UpstreamError
		if errors.As(err, &upErr) {
			metrics.AuthProxy.WithLabelValues(action, "rejected").Inc()
			lg.Info("auth rejected", "status", upErr.Status)

			writeAuthError(w, upErr.Status, upErr.Message)
			return
		}

		metrics.AuthProxy.WithLabelValues(action, "unreachable").Inc()
		lg.Warn("auth upstream failed", "err", err)

		writeAuthError(w, http.StatusBadGateway, connectFailure)
		return
	}

	metrics.AuthProxy.WithLabelValues(action, "ok").Inc()
	lg.Info("session established", "token", redact.Token())

	h.setSessionCookie(w, sess.Token, h.session.MaxAge)
	writeJSON(w, http.StatusOK, dto.SessionFromClient(sess))
}

// Logout гасит cookie сессии и уводит на страницу входа.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	metrics.AuthProxy.WithLabelValues("logout", "ok").Inc()

	http.Redirect(w, r, strings.TrimRight(h.session.SiteURL, "/")+"/auth/login", http.StatusSeeOther)
}

// SessionStatus сообщает только о наличии cookie; токен не проверяется.
func (h *Handlers) SessionStatus(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(h.session.CookieName)
	loggedIn := err == nil && c.Value != ""

	writeJSON(w, http.StatusOK, dto.SessionStatus{LoggedIn: loggedIn})
}

// setSessionCookie ставит cookie сессии; maxAge < 0 удаляет её.
func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	c := &http.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	if maxAge < 0 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	} else {
		c.MaxAge = int(maxAge / time.Second)
	}

	http.SetCookie(w, c)
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.AuthError{Error: msg})
}
