package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	stageDuration *prometheus.HistogramVec
	stageDegraded *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
	ingestedTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bullbearpk_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageDegraded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bullbearpk_stage_degraded_total",
				Help: "Pipeline stages that fell back to a defined default",
			},
			[]string{"stage"},
		),
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bullbearpk_runs_total",
				Help: "Pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		ingestedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bullbearpk_records_ingested_total",
				Help: "Market records routed to a backend",
			},
			[]string{"backend"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bullbearpk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bullbearpk_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordStage records one stage execution.
func (r *Recorder) RecordStage(stage string, degraded bool, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
	if degraded {
		r.stageDegraded.WithLabelValues(stage).Inc()
	}
}

// RecordRun records a completed pipeline run.
func (r *Recorder) RecordRun(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.runsTotal.WithLabelValues(outcome).Inc()
}

// RecordIngested records records routed to a backend.
func (r *Recorder) RecordIngested(source string, n int) {
	r.ingestedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last observed price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
