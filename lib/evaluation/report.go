// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evaluation

import (
	"cmp"
	"slices"
	"time"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
)

// Report is the outcome of evaluating one query set under one
// (strategy, model) pair.
type Report struct {
	// Strategy is the configured strategy name (for example "hybrid").
	Strategy string `json:"strategy"`

	// Grouping is the hierarchy strategy the run grouped tools by.
	Grouping hierarchy.Strategy `json:"grouping"`

	// Method is the matcher's name.
	Method string `json:"method"`

	// Model is the embedding model, or empty for matchers that do not
	// embed and were not run under a model.
	Model embedding.ModelID `json:"model"`

	// ToolCount is the number of tools in the evaluated catalog.
	ToolCount int `json:"tool_count"`

	// GroupCount is the number of groups in the hierarchy.
	GroupCount int `json:"group_count"`

	// Total is the number of queries submitted.
	Total int `json:"total"`

	// Scored is the number of queries that produced a prediction.
	Scored int `json:"scored"`

	// Correct is the number of predictions equal to the expected tool.
	Correct int `json:"correct"`

	// Failed is the number of queries the matcher could not answer.
	Failed int `json:"failed"`

	// Accuracy is Correct/Scored, or 0 when nothing was scored.
	Accuracy float64 `json:"accuracy"`

	// ByDomain has one entry per catalog domain, sorted by name.
	ByDomain []CategoryAccuracy `json:"by_domain"`

	// ByAction has one entry per catalog action, sorted by name.
	ByAction []CategoryAccuracy `json:"by_action"`

	// Confusions counts each (expected, predicted) mismatch, most
	// frequent first.
	Confusions []ConfusionPair `json:"confusions"`

	Failures []Failure `json:"failures"`

	// Latency summarises matcher time over scored queries.
	Latency Timing `json:"latency"`

	// Outcomes has one entry per submitted query, in submission order.
	Outcomes []QueryOutcome `json:"outcomes"`
}

// CategoryAccuracy is accuracy restricted to queries whose expected
// tool has one domain or one action.
type CategoryAccuracy struct {
	Category string `json:"category"`

	// Queries is the number of scored queries in the category.
	Queries int `json:"queries"`

	Correct int `json:"correct"`

	// Accuracy is Correct/Queries. It is 0 and Defined is false when
	// the category had no scored queries.
	Accuracy float64 `json:"accuracy"`
	Defined  bool    `json:"defined"`
}

// ConfusionPair counts predictions of Predicted for queries expecting
// Expected.
type ConfusionPair struct {
	Expected  string `json:"expected"`
	Predicted string `json:"predicted"`
	Count     int    `json:"count"`
}

// Failure records a query the matcher could not answer.
type Failure struct {
	Query        string `json:"query"`
	ExpectedTool string `json:"expected_tool"`
	Error        string `json:"error"`
}

// QueryOutcome is the per-query record of a run.
type QueryOutcome struct {
	Query        string `json:"query"`
	ExpectedTool string `json:"expected_tool"`

	// PredictedTool is empty when the query failed.
	PredictedTool string  `json:"predicted_tool,omitempty"`
	Correct       bool    `json:"correct"`
	Score         float64 `json:"score"`

	// Group is the routed group's key; empty for flat hierarchies.
	Group      string  `json:"group,omitempty"`
	GroupScore float64 `json:"group_score,omitempty"`

	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// Timing summarises a set of durations. Percentiles use the
// nearest-rank method.
type Timing struct {
	Count int           `json:"count"`
	Total time.Duration `json:"total"`
	Mean  time.Duration `json:"mean"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
}

// summarize computes a Timing over samples. The zero Timing is
// returned for no samples.
func summarize(samples []time.Duration) Timing {
	if len(samples) == 0 {
		return Timing{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	return Timing{
		Count: len(sorted),
		Total: total,
		Mean:  total / time.Duration(len(sorted)),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P50:   nearestRank(sorted, 50),
		P95:   nearestRank(sorted, 95),
	}
}

// nearestRank returns the p-th percentile of sorted, which must be
// non-empty.
func nearestRank(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// ratio returns correct/total, or 0 for an empty total.
func ratio(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// sortConfusions orders pairs by count descending, then by expected
// and predicted tool id.
func sortConfusions(pairs []ConfusionPair) {
	slices.SortFunc(pairs, func(a, b ConfusionPair) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Expected, b.Expected); c != 0 {
			return c
		}
		return cmp.Compare(a.Predicted, b.Predicted)
	})
}
