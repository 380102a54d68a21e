package logpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// Metrics holds the Prometheus collectors a Factory reports to. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	recordsTotal   *prometheus.CounterVec
	emitErrors     *prometheus.CounterVec
	closeFailures  *prometheus.CounterVec
	loggers        prometheus.Gauge
	finishDuration prometheus.Histogram
}

// NewMetrics creates the logpool collectors and registers them with reg.
//
// Exposed series:
//   - logpool_records_total{category,level}
//   - logpool_emit_errors_total{category}
//   - logpool_close_failures_total{category}
//   - logpool_loggers
//   - logpool_finish_duration_seconds
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordsTotal: createCounterVec("logpool_records_total",
			"Total number of records handed to the emitter", []string{"category", "level"}),
		emitErrors: createCounterVec("logpool_emit_errors_total",
			"Total number of records the emitter failed to write", []string{"category"}),
		closeFailures: createCounterVec("logpool_close_failures_total",
			"Total number of loggers that failed to flush or close on finish", []string{"category"}),
		loggers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "logpool_loggers",
			Help: "Number of loggers currently cached by the factory",
		}),
		finishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "logpool_finish_duration_seconds",
			Help:    "Duration of factory shutdown in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.recordsTotal,
			m.emitErrors,
			m.closeFailures,
			m.loggers,
			m.finishDuration,
		)
	}
	return m
}

func (m *Metrics) observeRecord(category string, level emitter.Level, err error) {
	if m == nil {
		return
	}
	m.recordsTotal.WithLabelValues(category, level.String()).Inc()
	if err != nil {
		m.emitErrors.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) loggerCreated() {
	if m == nil {
		return
	}
	m.loggers.Inc()
}

func (m *Metrics) closeFailed(category string) {
	if m == nil {
		return
	}
	m.closeFailures.WithLabelValues(category).Inc()
}

func (m *Metrics) finished(start time.Time) {
	if m == nil {
		return
	}
	m.finishDuration.Observe(time.Since(start).Seconds())
	m.loggers.Set(0)
}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
