// preview хранит локальные превью загруженных фотографий.
// Ссылка /previews/<id> действует, пока не истёк TTL и процесс не перезапущен;
// после этого профиль продолжает ссылаться на неё, но она больше не отдаётся.
package preview

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
)

// PathPrefix — путь, под которым раздаются превью.
const PathPrefix = "/previews/"

var (
	ErrEmpty    = errors.New("empty upload")
	ErrTooLarge = errors.New("upload too large")

	// ErrUnsupportedType — содержимое файла не является разрешённым изображением.
	ErrUnsupportedType = errors.New("unsupported content type")
)

type item struct {
	upload    models.Upload
	expiresAt time.Time
}

// Memory — аллокатор превью в памяти процесса.
type Memory struct {
	ttl        time.Duration
	maxSize    int64
	maxEntries int
	allowed    []string
	now        func() time.Time

	mu    sync.Mutex
	items map[string]item
	order []string
}

type Option func(*Memory)

// WithAllowedTypes задаёт допустимые MIME-типы превью.
// Без списка принимается любой image/*.
func WithAllowedTypes(types ...string) Option {
	return func(m *Memory) {
		m.allowed = m.allowed[:0]
		for _, t := range types {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				m.allowed = append(m.allowed, t)
			}
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// New создаёт аллокатор. maxSize <= 0 и maxEntries <= 0 снимают ограничения.
func New(ttl time.Duration, maxSize int64, maxEntries int, opts ...Option) *Memory {
	m := &Memory{
		ttl:        ttl,
		maxSize:    maxSize,
		maxEntries: maxEntries,
		now:        time.Now,
		items:      make(map[string]item),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Allocate сохраняет копию файла и возвращает URI превью.
// Тип определяется по содержимому, заголовок клиента не учитывается.
// При переполнении вытесняется самое старое превью.
func (m *Memory) Allocate(_ context.Context, u *models.Upload) (string, error) {
	if u == nil || len(u.Data) == 0 {
		return "", ErrEmpty
	}

	if m.maxSize > 0 && int64(len(u.Data)) > m.maxSize {
		return "", ErrTooLarge
	}

	contentType, ok := m.sniff(u.Data)
	if !ok {
		return "", ErrUnsupportedType
	}

	id := uuid.NewString()
	cp := models.Upload{
		Filename:    u.Filename,
		ContentType: contentType,
		Data:        append([]byte(nil), u.Data...),
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictLocked(now)

	if m.maxEntries > 0 {
		for len(m.order) >= m.maxEntries {
			delete(m.items, m.order[0])
			m.order = m.order[1:]
		}
	}

	m.items[id] = item{upload: cp, expiresAt: now.Add(m.ttl)}
	m.order = append(m.order, id)

	return PathPrefix + id, nil
}

// Preview возвращает файл по id (без префикса пути).
func (m *Memory) Preview(id string) (*models.Upload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok || !m.now().Before(it.expiresAt) {
		return nil, false
	}

	u := it.upload

	return &u, true
}

// Len — количество хранимых превью.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}

// evictLocked удаляет истёкшие превью; order отсортирован по времени создания.
func (m *Memory) evictLocked(now time.Time) {
	i := 0
	for ; i < len(m.order); i++ {
		it, ok := m.items[m.order[i]]
		if ok && now.Before(it.expiresAt) {
			break
		}
		delete(m.items, m.order[i])
	}

	m.order = m.order[i:]
}

func (m *Memory) sniff(data []byte) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "", false
	}

	if len(m.allowed) == 0 {
		return mediaType, strings.HasPrefix(mediaType, "image/")
	}

	return mediaType, slices.Contains(m.allowed, mediaType)
}
