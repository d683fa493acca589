// cookie предоставляет storage.Records поверх cookie браузера.
// Jar живёт в пределах одного HTTP-запроса: читает cookie запроса
// и пишет Set-Cookie в ответ. Запись, сделанная в этом же запросе,
// видна последующим чтениям (как document.cookie в браузере).
package cookie

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

// MaxSize — предел браузера на пару name=value одного cookie.
const MaxSize = 4096

type Jar struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
	now    func() time.Time

	mu      sync.Mutex
	written map[string]*http.Cookie
}

type Option func(*Jar)

// WithSecure выставляет атрибут Secure у записываемых cookie.
func WithSecure(secure bool) Option {
	return func(j *Jar) { j.secure = secure }
}

// WithClock подменяет источник времени (для Expires).
func WithClock(now func() time.Time) Option {
	return func(j *Jar) { j.now = now }
}

// New создаёт хранилище для пары запрос/ответ.
func New(w http.ResponseWriter, r *http.Request, opts ...Option) *Jar {
	j := &Jar{
		r:       r,
		w:       w,
		now:     time.Now,
		written: make(map[string]*http.Cookie),
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Record возвращает раскодированное значение cookie key.
// Значение кодируется как encodeURIComponent: пробел — %20, «+» — литерал.
func (j *Jar) Record(_ context.Context, key string) (string, error) {
	const op = "storage/cookie/Record"

	j.mu.Lock()
	c, ok := j.written[key]
	j.mu.Unlock()

	if !ok {
		var err error
		if c, err = j.r.Cookie(key); err != nil {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundRecord)
		}
	}

	if c.MaxAge < 0 || c.Value == "" {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundRecord)
	}

	v, err := url.PathUnescape(c.Value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// PutRecord пишет Set-Cookie с Path=/, SameSite=Lax и сроком жизни ttl.
// Неположительный ttl удаляет cookie.
func (j *Jar) PutRecord(_ context.Context, key, value string, ttl time.Duration) error {
	const op = "storage/cookie/PutRecord"

	escaped := url.PathEscape(value)
	if len(key)+len(escaped) > MaxSize {
		return fmt.Errorf("%s: %w", op, storage.ErrRecordTooLarge)
	}

	c := &http.Cookie{
		Name:     key,
		Value:    escaped,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Secure:   j.secure,
	}

	if ttl > 0 {
		c.MaxAge = int(ttl / time.Second)
		c.Expires = j.now().Add(ttl).UTC()
	} else {
		c.MaxAge = -1
		c.Value = ""
		c.Expires = time.Unix(0, 0)
	}

	http.SetCookie(j.w, c)

	j.mu.Lock()
	j.written[key] = c
	j.mu.Unlock()

	return nil
}

var _ storage.Records = (*Jar)(nil)
