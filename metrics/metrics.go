package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "tutor"

const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics groups the relay's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	upstreamAttempts *prometheus.CounterVec
	upstreamRetries  prometheus.Counter
	retriesExhausted prometheus.Counter
	askRequests      *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	sessionsActive   prometheus.Gauge
}

func New(r prometheus.Registerer) *Metrics {
	f := promauto.With(r)
	return &Metrics{
		upstreamAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upstream_attempts_total",
			Help:      "Upstream generation attempts by outcome.",
		}, []string{"outcome"}),
		upstreamRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upstream_retries_total",
			Help:      "Backoff waits taken after a rate limited attempt.",
		}),
		retriesExhausted: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "retries_exhausted_total",
			Help:      "Requests that used up every attempt while rate limited.",
		}),
		askRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ask_requests_total",
			Help:      "Handled /ask-ai requests by HTTP status code.",
		}, []string{"code"}),
		upstreamLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of single upstream generation attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sessions_active",
			Help:      "Conversation sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) ObserveAttempt(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.upstreamAttempts.WithLabelValues(outcome).Inc()
	m.upstreamLatency.Observe(took.Seconds())
}

func (m *Metrics) IncRetry() {
	if m == nil {
		return
	}
	m.upstreamRetries.Inc()
}

func (m *Metrics) IncExhausted() {
	if m == nil {
		return
	}
	m.retriesExhausted.Inc()
}

func (m *Metrics) ObserveAsk(code int) {
	if m == nil {
		return
	}
	m.askRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}
