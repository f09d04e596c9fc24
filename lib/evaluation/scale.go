// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Generator produces a labelled dataset with a given number of tools.
// [toolcatalog.Synthesizer] is the standard implementation.
type Generator interface {
	Generate(toolCount int) (*toolcatalog.Dataset, error)
}

// ScalePoint is the result of evaluating one catalog size.
type ScalePoint struct {
	ToolCount   int           `json:"tool_count"`
	QueryCount  int           `json:"query_count"`
	Accuracy    float64       `json:"accuracy"`
	MeanLatency time.Duration `json:"mean_latency"`
	Report      *Report       `json:"report"`
}

// EvaluateAtScale generates a dataset for each tool count and
// evaluates strategy under model against it. Points are returned in
// toolCounts order; a repeated count is evaluated again.
func (e *Evaluator) EvaluateAtScale(ctx context.Context, generator Generator, toolCounts []int, strategy Strategy, model embedding.ModelID) ([]ScalePoint, error) {
	if generator == nil {
		return nil, fmt.Errorf("evaluation: nil generator")
	}
	points := make([]ScalePoint, 0, len(toolCounts))
	for _, count := range toolCounts {
		if count < 1 {
			return nil, fmt.Errorf("evaluation: tool count must be positive, got %d", count)
		}
		dataset, err := generator.Generate(count)
		if err != nil {
			return nil, fmt.Errorf("generating %d tools: %w", count, err)
		}
		report, err := e.run(ctx, dataset, strategy, model)
		if err != nil {
			return nil, fmt.Errorf("evaluating %d tools: %w", count, err)
		}
		point := ScalePoint{
			ToolCount:   dataset.Catalog.Len(),
			QueryCount:  len(dataset.Queries),
			Accuracy:    report.Accuracy,
			MeanLatency: report.Latency.Mean,
			Report:      report,
		}
		points = append(points, point)
		e.Metrics.observeScalePoint(point)
		e.logger().Info("scale point evaluated",
			"strategy", report.Strategy,
			"model", string(model),
			"tools", point.ToolCount,
			"queries", point.QueryCount,
			"accuracy", point.Accuracy,
		)
	}
	return points, nil
}
