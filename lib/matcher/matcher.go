// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
)

// Matcher resolves a query to a tool under a hierarchy.
type Matcher interface {
	// Name identifies the matcher in reports and logs.
	Name() string

	// Match returns the selected tool for query.
	Match(ctx context.Context, query string, h *hierarchy.Hierarchy) (Result, error)
}

// SessionMatcher is implemented by matchers that embed through an
// [embedding.Session].
type SessionMatcher interface {
	Matcher
	Session() *embedding.Session
}

// Result is the outcome of one match.
type Result struct {
	// ToolID is the selected tool.
	ToolID string `json:"tool_id"`

	// Score is the selected tool's similarity to the query within its
	// group.
	Score float64 `json:"score"`

	// Group is the key of the routed group; empty for a flat hierarchy.
	Group string `json:"group"`

	// GroupLabel is the routed group's display label.
	GroupLabel string `json:"group_label"`

	// GroupScore is the routing-stage score of the selected group. Zero
	// when Hierarchical is false.
	GroupScore float64 `json:"group_score"`

	// Hierarchical reports whether a routing stage ran.
	Hierarchical bool `json:"hierarchical"`

	// Candidates is the number of tools scored in the final stage.
	Candidates int `json:"candidates"`
}

// EmptyHierarchyError is returned when there is nothing to match
// against: the hierarchy has no groups, or the routed group has no
// tools.
type EmptyHierarchyError struct {
	// Strategy is the hierarchy's strategy.
	Strategy hierarchy.Strategy

	// Group is the routed group's key when the group was empty.
	Group string
}

func (e *EmptyHierarchyError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("matcher: group %q of %s hierarchy has no tools", e.Group, e.Strategy)
	}
	return fmt.Sprintf("matcher: %s hierarchy has no groups", e.Strategy)
}

// Options configures [ForMethod].
type Options struct {
	// Session supplies embeddings for the embedding and weighted
	// methods.
	Session *embedding.Session

	// DomainWeight is the weighted method's blend weight.
	DomainWeight float64
}

// Methods lists the names accepted by [ForMethod].
var Methods = []string{"embedding", "weighted", "lexical"}

// ForMethod builds the matcher named by method.
func ForMethod(method string, options Options) (Matcher, error) {
	switch method {
	case "", "embedding":
		if options.Session == nil {
			return nil, fmt.Errorf("matcher: the embedding method needs an embedding session")
		}
		return NewEmbedding(options.Session), nil
	case "weighted":
		if options.Session == nil {
			return nil, fmt.Errorf("matcher: the weighted method needs an embedding session")
		}
		return NewWeighted(options.Session, options.DomainWeight)
	case "lexical":
		return NewLexical(), nil
	}
	return nil, fmt.Errorf("matcher: unknown method %q (want one of %v)", method, Methods)
}

// argmax returns the index of the highest score, the first one on
// ties, or -1 for no scores.
func argmax(scores []float64) int {
	best := -1
	for i, score := range scores {
		if best < 0 || score > scores[best] {
			best = i
		}
	}
	return best
}
