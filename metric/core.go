package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "braincellkg"

// Metrics holds the core batch metrics shared by every component.
type Metrics struct {
	// BatchStatus tracks the pipeline stage (0=idle, 1=loading, 2=tokenizing,
	// 3=resolving, 4=aggregating, 5=reporting, 6=done, 7=failed).
	BatchStatus prometheus.Gauge

	LabelsTokenized prometheus.Counter
	FlaggedLabels   prometheus.Counter

	TokensResolved     *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec

	CatalogConnected prometheus.Gauge

	ReportRowsWritten *prometheus.CounterVec

	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates the core batch metrics, unregistered.
func NewMetrics() *Metrics {
	return &Metrics{
		BatchStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "status",
			Help:      "Pipeline stage (0=idle, 1=loading, 2=tokenizing, 3=resolving, 4=aggregating, 5=reporting, 6=done, 7=failed)",
		}),

		LabelsTokenized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokenizer",
			Name:      "labels_total",
			Help:      "Total cluster labels tokenized",
		}),

		FlaggedLabels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokenizer",
			Name:      "flagged_labels_total",
			Help:      "Labels flagged for a structural grammar violation",
		}),

		TokensResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "tokens_total",
				Help:      "Tokens resolved, by winning strategy and target family",
			},
			[]string{"strategy", "family"},
		),

		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "duration_seconds",
				Help:      "Per-token resolution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),

		CatalogConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "connected",
			Help:      "Graph catalog connectivity (0=disconnected, 1=connected)",
		}),

		ReportRowsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "report",
				Name:      "rows_total",
				Help:      "Report rows written, by table",
			},
			[]string{"table"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total errors, by component and classification",
			},
			[]string{"component", "class"},
		),
	}
}

// RecordBatchStatus updates the pipeline-stage gauge.
func (m *Metrics) RecordBatchStatus(stage int) {
	m.BatchStatus.Set(float64(stage))
}

// RecordLabelTokenized counts one tokenized label and its flag state.
func (m *Metrics) RecordLabelTokenized(flagged bool) {
	m.LabelsTokenized.Inc()
	if flagged {
		m.FlaggedLabels.Inc()
	}
}

// RecordTokenResolved counts one resolution outcome.
func (m *Metrics) RecordTokenResolved(strategy, family string, duration time.Duration) {
	m.TokensResolved.WithLabelValues(strategy, family).Inc()
	m.ResolutionDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordCatalogStatus updates the catalog connectivity gauge.
func (m *Metrics) RecordCatalogStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	m.CatalogConnected.Set(value)
}

// RecordReportRows counts rows written to one table.
func (m *Metrics) RecordReportRows(table string, rows int) {
	m.ReportRowsWritten.WithLabelValues(table).Add(float64(rows))
}

// RecordError counts one classified error.
func (m *Metrics) RecordError(component, class string) {
	m.ErrorsTotal.WithLabelValues(component, class).Inc()
}
