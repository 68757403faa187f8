// Package metrics registers the Prometheus instruments used across the
// service. A single Metrics value is created in main and injected where
// needed; nil receivers are tolerated so unit tests skip instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered        prometheus.Counter
	RecordsCreated         *prometheus.CounterVec
	StatusTransitions      *prometheus.CounterVec
	MediaUploads           *prometheus.CounterVec
	NotificationsEnqueued  prometheus.Counter
	NotificationsPublished prometheus.Counter
	NotificationsFailed    prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ireporter_users_registered_total",
			Help: "Total number of users registered.",
		}),
		RecordsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ireporter_records_created_total",
			Help: "Total number of records created, by type.",
		}, []string{"type"}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ireporter_status_transitions_total",
			Help: "Total number of admin status transitions, by new status.",
		}, []string{"status"}),
		MediaUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ireporter_media_uploads_total",
			Help: "Total number of media uploads, by kind.",
		}, []string{"kind"}),
		NotificationsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ireporter_notifications_enqueued_total",
			Help: "Notification events appended to the outbox.",
		}),
		NotificationsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ireporter_notifications_published_total",
			Help: "Notification events published to Kafka.",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ireporter_notifications_failed_total",
			Help: "Notification publish or send attempts that failed.",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ireporter_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) IncUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

func (m *Metrics) IncRecordsCreated(recordType string) {
	if m != nil {
		m.RecordsCreated.WithLabelValues(recordType).Inc()
	}
}

func (m *Metrics) IncStatusTransitions(status string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncMediaUploads(kind string) {
	if m != nil {
		m.MediaUploads.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncNotificationsEnqueued() {
	if m != nil {
		m.NotificationsEnqueued.Inc()
	}
}

func (m *Metrics) IncNotificationsPublished() {
	if m != nil {
		m.NotificationsPublished.Inc()
	}
}

func (m *Metrics) IncNotificationsFailed() {
	if m != nil {
		m.NotificationsFailed.Inc()
	}
}

func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
	}
}
