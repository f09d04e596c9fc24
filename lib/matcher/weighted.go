// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"
	"fmt"
	"math"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
)

// Weighted routes over a domain+action hierarchy with a blended
// score: for each composite group,
//
//	w·cos(query, domain routing) + (1-w)·cos(query, action routing)
//
// The best-scoring group is searched exactly like the [Embedding]
// matcher's second stage. w = 1 routes on domain alone and w = 0 on
// action alone.
type Weighted struct {
	inner        *Embedding
	domainWeight float64
}

// NewWeighted returns a weighted matcher. domainWeight must be in
// [0, 1].
func NewWeighted(session *embedding.Session, domainWeight float64) (*Weighted, error) {
	if math.IsNaN(domainWeight) || domainWeight < 0 || domainWeight > 1 {
		return nil, fmt.Errorf("matcher: domain weight must be in [0, 1], got %v", domainWeight)
	}
	return &Weighted{inner: NewEmbedding(session), domainWeight: domainWeight}, nil
}

// Name returns "weighted(<w>)".
func (m *Weighted) Name() string {
	return fmt.Sprintf("weighted(%.2f)", m.domainWeight)
}

// DomainWeight returns the blend weight.
func (m *Weighted) DomainWeight() float64 {
	return m.domainWeight
}

// Session returns the session the matcher embeds through.
func (m *Weighted) Session() *embedding.Session {
	return m.inner.session
}

// Match routes by the blended score and selects within the winning
// group.
func (m *Weighted) Match(ctx context.Context, query string, h *hierarchy.Hierarchy) (Result, error) {
	if h == nil || h.Len() == 0 {
		return Result{}, emptyHierarchy(h)
	}
	if h.Strategy() != hierarchy.ByDomainAction {
		return Result{}, fmt.Errorf("matcher: weighted matching needs a %s hierarchy, have %s",
			hierarchy.ByDomainAction, h.Strategy())
	}

	session := m.inner.session
	queryVector, err := session.Embed(ctx, query)
	if err != nil {
		return Result{}, err
	}
	domainVectors, actionVectors, err := h.ComponentRoutingVectors(ctx, session)
	if err != nil {
		return Result{}, err
	}

	scores := make([]float64, h.Len())
	for i := range scores {
		scores[i] = m.domainWeight*embedding.Cosine(queryVector, domainVectors[i]) +
			(1-m.domainWeight)*embedding.Cosine(queryVector, actionVectors[i])
	}
	best := argmax(scores)
	group := h.Group(best)

	return m.inner.selectTool(ctx, queryVector, h, group, Result{
		Group:        group.Key,
		GroupLabel:   group.Label,
		GroupScore:   scores[best],
		Hierarchical: true,
	})
}
