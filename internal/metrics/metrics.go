// Package metrics holds the prometheus collectors of the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Answer sources reported by QuestionsTotal.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	QuestionsTotal   *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	RateLimited      prometheus.Counter
	EventsPublished  *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QuestionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cognicursos_questions_total",
			Help: "Questions answered, by answer source",
		}, []string{"source"}),
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cognicursos_llm_requests_total",
			Help: "Chat completion calls by provider and status",
		}, []string{"provider", "status"}),
		ProviderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cognicursos_llm_request_duration_seconds",
			Help:    "Duration of chat completion calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cognicursos_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cognicursos_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "cognicursos_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cognicursos_events_published_total",
			Help: "Interaction events sent to the broker, by status",
		}, []string{"status"}),
	}
}

func (m *Metrics) RecordQuestion(source string) {
	if m == nil {
		return
	}
	m.QuestionsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordProviderCall(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ProviderRequests.WithLabelValues(provider, status).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordHTTP(method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}

func (m *Metrics) RecordEvent(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(status).Inc()
}
