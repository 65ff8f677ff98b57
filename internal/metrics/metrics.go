package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the API
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Business Metrics
	AnnotationsTotal    *prometheus.CounterVec
	CommentsTotal       prometheus.Counter
	SessionsUploaded    prometheus.Counter
	ConsentUpdatesTotal *prometheus.CounterVec
	MembershipEvents    *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
	ConsentLedger       *prometheus.GaugeVec
}

// NewMetricsRegistry registers every metric on reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes prometheus.DefaultRegisterer.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gabber_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gabber_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gabber_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method"},
		),

		// Business Metrics
		AnnotationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gabber_annotations_total",
				Help: "Annotation mutations by action",
			},
			[]string{"action"},
		),
		CommentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gabber_comments_created_total",
				Help: "Total comments created",
			},
		),
		SessionsUploaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gabber_sessions_uploaded_total",
				Help: "Total interview sessions uploaded",
			},
		),
		ConsentUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gabber_consent_updates_total",
				Help: "Consent decisions recorded by type",
			},
			[]string{"type"},
		),
		MembershipEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gabber_membership_events_total",
				Help: "Membership lifecycle events by action",
			},
			[]string{"action"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gabber_notifications_total",
				Help: "Outbound notifications by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		ConsentLedger: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gabber_consents",
				Help: "Recorded participant consents by type",
			},
			[]string{"type"},
		),
	}
}

// The helpers below are nil-safe so services can run without a registry.

func (m *MetricsRegistry) Annotation(action string) {
	if m != nil {
		m.AnnotationsTotal.WithLabelValues(action).Inc()
	}
}

func (m *MetricsRegistry) Comment() {
	if m != nil {
		m.CommentsTotal.Inc()
	}
}

func (m *MetricsRegistry) SessionUploaded() {
	if m != nil {
		m.SessionsUploaded.Inc()
	}
}

func (m *MetricsRegistry) Consent(consentType string) {
	if m != nil {
		m.ConsentUpdatesTotal.WithLabelValues(consentType).Inc()
	}
}

func (m *MetricsRegistry) Membership(action string) {
	if m != nil {
		m.MembershipEvents.WithLabelValues(action).Inc()
	}
}

func (m *MetricsRegistry) Notification(channel, outcome string) {
	if m != nil {
		m.NotificationsTotal.WithLabelValues(channel, outcome).Inc()
	}
}
