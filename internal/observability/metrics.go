package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	RateLimitDenials *prometheus.CounterVec
	InjectionBlocks  prometheus.Counter
	HoneypotHits     prometheus.Counter
	ProviderErrors   *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		RateLimitDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_denials_total",
			Help:      "Requests denied by the fixed-window limiter, by pipeline.",
		}, []string{"pipeline"}),
		InjectionBlocks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injection_blocks_total",
			Help:      "Chat messages blocked by the prompt-injection screen.",
		}),
		HoneypotHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "honeypot_hits_total",
			Help:      "Contact submissions rejected by the honeypot check.",
		}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Provider errors by provider and code.",
		}, []string{"provider", "code"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_ms",
			Help:      "Latency of external provider calls in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"provider"}),
	}
}

func (m *Metrics) ObserveProviderCall(provider string, d time.Duration) {
	m.ProviderLatency.WithLabelValues(provider).Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
