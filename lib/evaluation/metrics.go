// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evaluation

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
)

const (
	outcomeCorrect   = "correct"
	outcomeIncorrect = "incorrect"
	outcomeFailed    = "failed"
)

// Metrics holds the prometheus collectors an [Evaluator] updates. A
// nil *Metrics records nothing.
type Metrics struct {
	queries        *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	accuracy       *prometheus.GaugeVec
	embeddingCalls *prometheus.CounterVec
	scaleAccuracy  *prometheus.GaugeVec
}

// NewMetrics creates the evaluation collectors and registers them on
// registerer. A nil registerer creates unregistered collectors.
// Registration conflicts panic, as with promauto.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "toolhierarchy",
				Subsystem: "evaluation",
				Name:      "queries_total",
				Help:      "Evaluated queries by strategy, model and outcome (correct, incorrect, failed)",
			},
			[]string{"strategy", "method", "model", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "toolhierarchy",
				Subsystem: "evaluation",
				Name:      "match_latency_seconds",
				Help:      "Latency of a single query match",
				Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"strategy", "method", "model"},
		),
		accuracy: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "toolhierarchy",
				Subsystem: "evaluation",
				Name:      "accuracy_ratio",
				Help:      "Overall accuracy of the most recent run per strategy and model",
			},
			[]string{"strategy", "method", "model"},
		),
		embeddingCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "toolhierarchy",
				Subsystem: "evaluation",
				Name:      "embedding_requests_total",
				Help:      "Embedding provider requests made by evaluation runs",
			},
			[]string{"model"},
		),
		scaleAccuracy: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "toolhierarchy",
				Subsystem: "scale",
				Name:      "accuracy_ratio",
				Help:      "Accuracy per catalog size in a scale sweep",
			},
			[]string{"strategy", "model", "tools"},
		),
	}
}

func (m *Metrics) observeQuery(report *Report, outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	model := string(report.Model)
	m.queries.WithLabelValues(report.Strategy, report.Method, model, outcome).Inc()
	if outcome != outcomeFailed {
		m.latency.WithLabelValues(report.Strategy, report.Method, model).Observe(latency.Seconds())
	}
}

func (m *Metrics) observeRun(report *Report, traffic embedding.Stats) {
	if m == nil {
		return
	}
	model := string(report.Model)
	m.accuracy.WithLabelValues(report.Strategy, report.Method, model).Set(report.Accuracy)
	m.embeddingCalls.WithLabelValues(model).Add(float64(traffic.Requests()))
}

func (m *Metrics) observeScalePoint(point ScalePoint) {
	if m == nil || point.Report == nil {
		return
	}
	m.scaleAccuracy.WithLabelValues(
		point.Report.Strategy,
		string(point.Report.Model),
		strconv.Itoa(point.ToolCount),
	).Set(point.Accuracy)
}
