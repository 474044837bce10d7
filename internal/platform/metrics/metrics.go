package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the petition flow.
type Metrics struct {
	Logins                *prometheus.CounterVec
	TemplateEnsures       *prometheus.CounterVec
	SubmissionAttempts    *prometheus.CounterVec
	SubmissionsResolved   *prometheus.CounterVec
	SubmissionsFailed     prometheus.Counter
	SignatureVerification *prometheus.CounterVec
	Reconciliations       *prometheus.CounterVec
	RemoteLatency         *prometheus.HistogramVec
	RemoteBreakerOpen     prometheus.Gauge
	EndpointLatency       *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all metrics on reg. Tests pass a fresh registry
// so repeated construction does not collide.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_logins_total",
			Help: "Login attempts against the contract-hosting service by outcome",
		}, []string{"outcome"}),
		TemplateEnsures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_template_ensures_total",
			Help: "Template ensure calls by path taken (found, created, failed)",
		}, []string{"path"}),
		SubmissionAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_submission_attempts_total",
			Help: "Contract upload attempts by strategy tier and outcome",
		}, []string{"tier", "outcome"}),
		SubmissionsResolved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_submissions_resolved_total",
			Help: "Contract identifiers recovered, by the tier that recovered them",
		}, []string{"tier"}),
		SubmissionsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "petition_submissions_failed_total",
			Help: "Submissions that exhausted every upload strategy",
		}),
		SignatureVerification: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_signature_verifications_total",
			Help: "Wallet signature verifications by outcome (match, mismatch, error)",
		}, []string{"outcome"}),
		Reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "petition_reconciliations_total",
			Help: "Mismatch repairs by outcome",
		}, []string{"outcome"}),
		RemoteLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petition_remote_call_duration_seconds",
			Help:    "Latency of calls to the contract-hosting service by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		RemoteBreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "petition_remote_breaker_open",
			Help: "1 while the contract-hosting service circuit breaker is open",
		}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petition_endpoint_latency_seconds",
			Help:    "Latency of API endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementLogin(outcome string) {
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementTemplateEnsure(path string) {
	m.TemplateEnsures.WithLabelValues(path).Inc()
}

// RecordSubmissionAttempt counts one upload strategy attempt.
func (m *Metrics) RecordSubmissionAttempt(tier, outcome string) {
	m.SubmissionAttempts.WithLabelValues(tier, outcome).Inc()
}

func (m *Metrics) RecordSubmissionResolved(tier string) {
	m.SubmissionsResolved.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncrementSubmissionFailed() {
	m.SubmissionsFailed.Inc()
}

func (m *Metrics) RecordSignatureVerification(outcome string) {
	m.SignatureVerification.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordReconciliation(outcome string) {
	m.Reconciliations.WithLabelValues(outcome).Inc()
}

// ObserveRemoteCall records the latency of a single remote call.
func (m *Metrics) ObserveRemoteCall(operation string, d time.Duration) {
	m.RemoteLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.RemoteBreakerOpen.Set(1)
		return
	}
	m.RemoteBreakerOpen.Set(0)
}

func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
