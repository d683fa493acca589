package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/fittrack-dashboard/internal/errors"
	"github.com/pribylovaa/fittrack-dashboard/internal/service"
)

// Preview отдаёт байты превью с сохранённым Content-Type; 404, если превью истекло.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	const op = "http/handlers/Preview"

	u, ok := h.previews.Preview(chi.URLParam(r, "id"))
	if !ok {
		apierrors.WriteError(w, r, fmt.Errorf("%s: %w", op, service.ErrNotFound))
		return
	}

	ct := u.ContentType
	if ct == "" {
		ct = http.DetectContentType(u.Data)
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(u.Data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(u.Data)
}
