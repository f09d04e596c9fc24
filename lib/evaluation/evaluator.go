// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/toolhierarchy/lib/clock"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/matcher"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Evaluator runs labelled queries through matchers. The zero value is
// usable for [Evaluator.Evaluate]; comparisons that embed need a
// Provider.
type Evaluator struct {
	// Provider embeds text for the runs CompareStrategies and
	// EvaluateAtScale set up. Evaluate uses whatever session the
	// matcher was built with instead.
	Provider embedding.Provider

	// Clock times each match. Nil means the real clock.
	Clock clock.Clock

	// Logger receives per-query debug lines, failure warnings and a
	// summary per run. Nil means slog.Default().
	Logger *slog.Logger

	// Metrics, when non-nil, is updated after every query and run.
	Metrics *Metrics

	traffic embedding.Stats
}

// Traffic returns the embedding provider traffic of every run this
// evaluator has performed. It is kept out of [Report] because it
// depends on what earlier runs left in shared caches, not on the
// evaluated queries.
func (e *Evaluator) Traffic() embedding.Stats {
	return e.traffic
}

// runLabel names a run in reports, logs and metrics. Empty fields are
// derived from the hierarchy and matcher.
type runLabel struct {
	strategy string
	model    embedding.ModelID
}

// Evaluate matches every query under h with m and scores the
// predictions against the expected tools.
//
// Every expected tool must exist in the hierarchy's catalog; otherwise
// Evaluate fails before matching anything, with an error wrapping
// [*toolcatalog.NotFoundError]. A matcher error for one query is
// recorded in the report's Failures and the run continues, except
// that cancellation of ctx aborts the run.
func (e *Evaluator) Evaluate(ctx context.Context, queries []toolcatalog.TestQuery, h *hierarchy.Hierarchy, m matcher.Matcher) (*Report, error) {
	return e.evaluate(ctx, runLabel{}, queries, h, m)
}

func (e *Evaluator) evaluate(ctx context.Context, label runLabel, queries []toolcatalog.TestQuery, h *hierarchy.Hierarchy, m matcher.Matcher) (*Report, error) {
	if h == nil {
		return nil, fmt.Errorf("evaluation: nil hierarchy")
	}
	if m == nil {
		return nil, fmt.Errorf("evaluation: nil matcher")
	}
	catalog := h.Catalog()
	if err := toolcatalog.ValidateQueries(catalog, queries); err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}

	var session *embedding.Session
	if sessionMatcher, ok := m.(matcher.SessionMatcher); ok {
		session = sessionMatcher.Session()
	}
	if label.strategy == "" {
		label.strategy = string(h.Strategy())
	}
	if label.model == "" && session != nil {
		label.model = session.Model()
	}
	var statsBefore embedding.Stats
	if session != nil {
		statsBefore = session.Stats()
	}

	report := &Report{
		Strategy:   label.strategy,
		Grouping:   h.Strategy(),
		Method:     m.Name(),
		Model:      label.model,
		ToolCount:  catalog.Len(),
		GroupCount: h.Len(),
		Total:      len(queries),
		Outcomes:   make([]QueryOutcome, 0, len(queries)),
	}
	logger := e.logger().With(
		"strategy", report.Strategy,
		"method", report.Method,
		"model", string(report.Model),
	)

	byDomain := newTally(catalog.Domains())
	byAction := newTally(catalog.Actions())
	confusions := make(map[ConfusionPair]int)
	var latencies []time.Duration
	timeSource := e.timeSource()

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluation: run aborted: %w", err)
		}
		expected, _ := catalog.Lookup(query.ExpectedTool)

		start := timeSource.Now()
		result, err := m.Match(ctx, query.Query, h)
		elapsed := timeSource.Now().Sub(start)

		outcome := QueryOutcome{
			Query:        query.Query,
			ExpectedTool: query.ExpectedTool,
			Latency:      elapsed,
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("evaluation: run aborted: %w", err)
			}
			outcome.Error = err.Error()
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				Query:        query.Query,
				ExpectedTool: query.ExpectedTool,
				Error:        err.Error(),
			})
			report.Outcomes = append(report.Outcomes, outcome)
			logger.Warn("query failed",
				"query", query.Query,
				"expected", query.ExpectedTool,
				"error", err,
			)
			e.Metrics.observeQuery(report, outcomeFailed, elapsed)
			continue
		}

		outcome.PredictedTool = result.ToolID
		outcome.Score = result.Score
		outcome.Group = result.Group
		outcome.GroupScore = result.GroupScore
		outcome.Correct = result.ToolID == query.ExpectedTool
		report.Outcomes = append(report.Outcomes, outcome)

		report.Scored++
		latencies = append(latencies, elapsed)
		byDomain.add(expected.Domain, outcome.Correct)
		byAction.add(expected.Action, outcome.Correct)
		if outcome.Correct {
			report.Correct++
			e.Metrics.observeQuery(report, outcomeCorrect, elapsed)
		} else {
			confusions[ConfusionPair{Expected: query.ExpectedTool, Predicted: result.ToolID}]++
			e.Metrics.observeQuery(report, outcomeIncorrect, elapsed)
		}
		logger.Debug("query matched",
			"query", query.Query,
			"expected", query.ExpectedTool,
			"predicted", result.ToolID,
			"group", result.Group,
			"score", result.Score,
			"correct", outcome.Correct,
			"latency", elapsed,
		)
	}

	report.Accuracy = ratio(report.Correct, report.Scored)
	report.ByDomain = byDomain.accuracies()
	report.ByAction = byAction.accuracies()
	report.Confusions = make([]ConfusionPair, 0, len(confusions))
	for pair, count := range confusions {
		pair.Count = count
		report.Confusions = append(report.Confusions, pair)
	}
	sortConfusions(report.Confusions)
	report.Latency = summarize(latencies)
	var traffic embedding.Stats
	if session != nil {
		traffic = session.Stats().Sub(statsBefore)
	}
	e.traffic.Add(traffic)
	e.Metrics.observeRun(report, traffic)

	logger.Info("evaluation finished",
		"queries", report.Total,
		"scored", report.Scored,
		"correct", report.Correct,
		"failed", report.Failed,
		"accuracy", report.Accuracy,
		"mean_latency", report.Latency.Mean,
		"embedding_calls", traffic.Requests(),
	)
	return report, nil
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Evaluator) timeSource() clock.Clock {
	if e.Clock != nil {
		return e.Clock
	}
	return clock.Real()
}

// tally accumulates per-category counts over a fixed category set.
type tally struct {
	categories []string
	queries    map[string]int
	correct    map[string]int
}

func newTally(categories []string) *tally {
	return &tally{
		categories: categories,
		queries:    make(map[string]int),
		correct:    make(map[string]int),
	}
}

func (t *tally) add(category string, correct bool) {
	t.queries[category]++
	if correct {
		t.correct[category]++
	}
}

// accuracies returns one entry per category, in category order.
func (t *tally) accuracies() []CategoryAccuracy {
	result := make([]CategoryAccuracy, len(t.categories))
	for i, category := range t.categories {
		queries := t.queries[category]
		result[i] = CategoryAccuracy{
			Category: category,
			Queries:  queries,
			Correct:  t.correct[category],
			Accuracy: ratio(t.correct[category], queries),
			Defined:  queries > 0,
		}
	}
	return result
}
