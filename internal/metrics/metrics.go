// Package metrics records calculation outcomes. The engine talks to the
// Recorder interface; Prometheus backs it in the CLI and Nop everywhere
// metrics are not wanted.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ghgcalc"

// Oracle outcomes.
const (
	OracleOK      = "ok"
	OracleCached  = "cached"
	OracleTimeout = "timeout"
	OracleError   = "error"
)

// Recorder receives calculation events.
type Recorder interface {
	// ObserveCalculation records one finished calculation.
	ObserveCalculation(standard string, success bool, duration time.Duration)
	// ObserveOracle records one oracle call outcome.
	ObserveOracle(outcome string, duration time.Duration)
	// ObserveRetry records a retried oracle call.
	ObserveRetry()
	// ObserveDiscrepancy records a reconciliation discrepancy.
	ObserveDiscrepancy(standard string)
	// ObserveZeroGuarded records LCA nodes forced to zero.
	ObserveZeroGuarded(nodes int)
}

// Nop discards every event.
type Nop struct{}

func (Nop) ObserveCalculation(string, bool, time.Duration) {}
func (Nop) ObserveOracle(string, time.Duration)            {}
func (Nop) ObserveRetry()                                  {}
func (Nop) ObserveDiscrepancy(string)                      {}
func (Nop) ObserveZeroGuarded(int)                         {}

// Prometheus is a Recorder backed by Prometheus collectors.
type Prometheus struct {
	calculations  *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	oracleCalls   *prometheus.CounterVec
	oracleLatency prometheus.Histogram
	retries       prometheus.Counter
	discrepancies *prometheus.CounterVec
	zeroGuarded   prometheus.Counter
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Calculations by standard and status.",
		}, []string{"standard", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Calculation latency by standard.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"standard"}),
		oracleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "Factor-selection oracle requests by outcome.",
		}, []string{"outcome"}),
		oracleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_duration_seconds",
			Help:      "Factor-selection oracle latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_retries_total",
			Help:      "Oracle calls retried after a timeout.",
		}),
		discrepancies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_discrepancies_total",
			Help:      "Oracle selections whose arithmetic disagreed with the recomputation.",
		}, []string{"standard"}),
		zeroGuarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lca_zero_guarded_nodes_total",
			Help:      "LCA nodes forced to zero by a zero denominator.",
		}),
	}
	for _, c := range []prometheus.Collector{
		p.calculations, p.durations, p.oracleCalls, p.oracleLatency,
		p.retries, p.discrepancies, p.zeroGuarded,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ObserveCalculation implements Recorder.
func (p *Prometheus) ObserveCalculation(standard string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	p.calculations.WithLabelValues(standard, status).Inc()
	p.durations.WithLabelValues(standard).Observe(duration.Seconds())
}

// ObserveOracle implements Recorder.
func (p *Prometheus) ObserveOracle(outcome string, duration time.Duration) {
	p.oracleCalls.WithLabelValues(outcome).Inc()
	if outcome != OracleCached {
		p.oracleLatency.Observe(duration.Seconds())
	}
}

// ObserveRetry implements Recorder.
func (p *Prometheus) ObserveRetry() {
	p.retries.Inc()
}

// ObserveDiscrepancy implements Recorder.
func (p *Prometheus) ObserveDiscrepancy(standard string) {
	p.discrepancies.WithLabelValues(standard).Inc()
}

// ObserveZeroGuarded implements Recorder.
func (p *Prometheus) ObserveZeroGuarded(nodes int) {
	if nodes > 0 {
		p.zeroGuarded.Add(float64(nodes))
	}
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
