package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/fittrack-dashboard/internal/errors"
	"github.com/pribylovaa/fittrack-dashboard/internal/http/dto"
	"github.com/pribylovaa/fittrack-dashboard/internal/http/middleware"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/service"
)

// multipartOverhead — запас на заголовки multipart сверх размера файла.
const multipartOverhead = 1 << 20

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	records, key := h.records(w, r)
	snap := h.svc.Store(records, key).Load(r.Context())

	writeJSON(w, http.StatusOK, dto.ProfileFromSnapshot(snap))
}

// PatchProfile принимает объект "поле -> значение"; значение — строка, число или null.
// null очищает поле. Неизвестные поля игнорируются сервисом.
func (h *Handlers) PatchProfile(w http.ResponseWriter, r *http.Request) {
	const op = "http/handlers/PatchProfile"

	var in map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierrors.WriteError(w, r, invalidArgument(op))
		return
	}

	fields := make(map[string]string, len(in))
	for name, raw := range in {
		value, ok := fieldValue(raw)
		if !ok {
			apierrors.WriteError(w, r, invalidArgument(op))
			return
		}
		fields[name] = value
	}

	records, key := h.records(w, r)
	snap := h.svc.Store(records, key).SetFields(r.Context(), fields)

	writeJSON(w, http.StatusOK, dto.ProfileFromSnapshot(snap))
}

// fieldValue приводит JSON-значение поля к строке.
func fieldValue(raw json.RawMessage) (string, bool) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false
	}

	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// UploadImage принимает multipart-поле "file". Отсутствие файла — не ошибка:
// возвращается текущий профиль.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	const op = "http/handlers/UploadImage"

	slot := models.ImageSlot(chi.URLParam(r, "slot"))

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	}

	upload, err := readUpload(r, h.maxUpload)
	if err != nil {
		apierrors.WriteError(w, r, invalidArgument(op))
		return
	}

	records, key := h.records(w, r)
	snap := h.svc.Store(records, key).UploadImage(r.Context(), slot, upload)

	writeJSON(w, http.StatusOK, dto.ProfileFromSnapshot(snap))
}

// readUpload читает файл из формы; (nil, nil), если файла нет
// или тело превысило лимит (как и файл сверх лимита, это не ошибка).
func readUpload(r *http.Request, maxSize int64) (*models.Upload, error) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || errors.As(err, &tooLarge) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if maxSize > 0 {
		// +1 байт, чтобы превью отклонило файл сверх лимита.
		src = io.LimitReader(f, maxSize+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil
		}
		return nil, err
	}

	ct := hdr.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}

	return &models.Upload{Filename: hdr.Filename, ContentType: ct, Data: data}, nil
}

func (h *Handlers) PhotoPresign(w http.ResponseWriter, r *http.Request) {
	const op = "http/handlers/PhotoPresign"

	var in dto.PhotoPresignRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument(op))
		return
	}

	info, err := h.svc.PhotoUploadURL(r.Context(), service.PhotoUploadURLInput{
		OwnerID:       middleware.ClientIDFrom(r.Context()),
		Slot:          models.ImageSlot(chi.URLParam(r, "slot")),
		ContentType:   in.ContentType,
		ContentLength: in.ContentLength,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PhotoPresignFromStorage(info))
}

func (h *Handlers) PhotoConfirm(w http.ResponseWriter, r *http.Request) {
	const op = "http/handlers/PhotoConfirm"

	var in dto.PhotoConfirmRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument(op))
		return
	}

	records, key := h.records(w, r)
	snap, err := h.svc.Store(records, key).ConfirmPhotoUpload(
		r.Context(),
		middleware.ClientIDFrom(r.Context()),
		models.ImageSlot(chi.URLParam(r, "slot")),
		in.Key,
	)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromSnapshot(snap))
}
