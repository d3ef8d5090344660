package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instruction pipeline metrics.
type Metrics struct {
	// Instruction metrics
	InstructionsProcessed *prometheus.CounterVec
	InstructionDuration   prometheus.Histogram
	InstructionAmount     *prometheus.HistogramVec
	RequestsRejected      prometheus.Counter

	// Audit metrics
	AuditErrors prometheus.Counter

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		InstructionsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_instructions_processed_total",
				Help: "Total processed instructions by outcome",
			},
			[]string{"status", "status_code"},
		),
		InstructionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payment_instruction_duration_seconds",
			Help:    "Duration of instruction processing",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		InstructionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_instruction_amount",
				Help:    "Amounts of executed and scheduled instructions",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"currency"},
		),
		RequestsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_instruction_requests_rejected_total",
			Help: "Total requests rejected before the pipeline ran",
		}),
		AuditErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_instruction_audit_errors_total",
			Help: "Total failed audit writes",
		}),
		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_instruction_idempotency_replays_total",
			Help: "Total responses served from the idempotency cache",
		}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "payment_instruction_rate_limit_hits_total",
			Help: "Total requests refused by the rate limiter",
		}),
	}
}

// ObserveInstruction records one processed instruction. amount is ignored
// when negative, which callers use for "no amount".
func (m *Metrics) ObserveInstruction(status, statusCode, currency string, amount float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InstructionsProcessed.WithLabelValues(status, statusCode).Inc()
	m.InstructionDuration.Observe(elapsed.Seconds())
	if amount >= 0 && status != "failed" {
		m.InstructionAmount.WithLabelValues(currency).Observe(amount)
	}
}

// ObserveRejection records a request rejected for its shape.
func (m *Metrics) ObserveRejection() {
	if m == nil {
		return
	}
	m.RequestsRejected.Inc()
}

// ObserveAuditError records a failed audit write.
func (m *Metrics) ObserveAuditError() {
	if m == nil {
		return
	}
	m.AuditErrors.Inc()
}
