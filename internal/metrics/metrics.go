// metrics — счётчики и гистограммы Prometheus сервиса.
// Регистрируются в глобальном реестре и отдаются promhttp.Handler() на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fittrack"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RecordLoadFailures — чтения профиля, закончившиеся пустым профилем.
	// reason: storage | malformed.
	RecordLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "profile",
		Name:      "record_load_failures_total",
		Help:      "Profile record reads that fell back to the empty profile.",
	}, []string{"reason"})

	// RecordSaveFailures — reason: encode | too_large | storage.
	RecordSaveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "profile",
		Name:      "record_save_failures_total",
		Help:      "Profile record writes that were dropped.",
	}, []string{"reason"})

	// ImageUploads — outcome: preview | stored | ignored | rejected.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "profile",
		Name:      "image_uploads_total",
		Help:      "Progress photo uploads by slot and outcome.",
	}, []string{"slot", "outcome"})

	AfterImageExpirations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "profile",
		Name:      "after_image_expirations_total",
		Help:      "After photos cleared by the expiry check.",
	})

	// AuthProxy — action: login | register | logout; outcome: ok | rejected | unavailable | invalid.
	AuthProxy = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "proxy_requests_total",
		Help:      "Auth proxy requests by action and outcome.",
	}, []string{"action", "outcome"})
)
