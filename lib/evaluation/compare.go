// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evaluation

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/matcher"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Strategy is one configured way of organising and matching tools.
type Strategy struct {
	// Name labels the strategy in reports. Empty means the grouping.
	Name string

	Grouping hierarchy.Strategy

	// Method names the matcher (see [matcher.Methods]). Empty means
	// "embedding".
	Method string

	// DomainWeight is the weighted method's blend weight.
	DomainWeight float64
}

// Label returns Name, or the grouping when Name is empty.
func (s Strategy) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Grouping)
}

// embeds reports whether the strategy's matcher needs embeddings.
func (s Strategy) embeds() bool {
	return s.Method != "lexical"
}

// DefaultStrategies returns the four groupings matched by embedding:
// flat, domain, action, and the domain+action hybrid.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "flat", Grouping: hierarchy.Flat},
		{Name: "domain", Grouping: hierarchy.ByDomain},
		{Name: "action", Grouping: hierarchy.ByAction},
		{Name: "hybrid", Grouping: hierarchy.ByDomainAction},
	}
}

// CompareStrategies evaluates dataset under every (strategy, model)
// pair. Reports come back strategy-major: all models for the first
// strategy, then all models for the second, each in submission order.
//
// Each run gets its own hierarchy and its own embedding session, so
// no vector computed under one model is reused under another. Lexical
// strategies do not embed but still produce one report per model, so
// the result is always the full cross product.
func (e *Evaluator) CompareStrategies(ctx context.Context, dataset *toolcatalog.Dataset, strategies []Strategy, models []embedding.ModelID) ([]*Report, error) {
	if dataset == nil {
		return nil, fmt.Errorf("evaluation: nil dataset")
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("evaluation: no strategies to compare")
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("evaluation: no models to compare")
	}

	reports := make([]*Report, 0, len(strategies)*len(models))
	for _, strategy := range strategies {
		for _, model := range models {
			report, err := e.run(ctx, dataset, strategy, model)
			if err != nil {
				return nil, fmt.Errorf("strategy %s, model %s: %w", strategy.Label(), model, err)
			}
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// run evaluates dataset under one strategy and model with a fresh
// hierarchy and session.
func (e *Evaluator) run(ctx context.Context, dataset *toolcatalog.Dataset, strategy Strategy, model embedding.ModelID) (*Report, error) {
	if strategy.embeds() && e.Provider == nil {
		return nil, fmt.Errorf("evaluation: the %s method needs an embedding provider", methodName(strategy.Method))
	}
	h, err := hierarchy.BuildWithIntents(dataset.Catalog, strategy.Grouping, dataset.Intents)
	if err != nil {
		return nil, err
	}
	options := matcher.Options{DomainWeight: strategy.DomainWeight}
	if strategy.embeds() {
		options.Session = embedding.NewSession(e.Provider, model)
	}
	m, err := matcher.ForMethod(strategy.Method, options)
	if err != nil {
		return nil, err
	}
	return e.evaluate(ctx, runLabel{strategy: strategy.Label(), model: model}, dataset.Queries, h, m)
}

func methodName(method string) string {
	if method == "" {
		return "embedding"
	}
	return method
}
