// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Embedding is the two-stage cosine-similarity matcher.
type Embedding struct {
	session    *embedding.Session
	prefetched map[*toolcatalog.Catalog]bool
}

// NewEmbedding returns a matcher embedding through session.
func NewEmbedding(session *embedding.Session) *Embedding {
	return &Embedding{
		session:    session,
		prefetched: make(map[*toolcatalog.Catalog]bool),
	}
}

// Name returns "embedding".
func (m *Embedding) Name() string {
	return "embedding"
}

// Session returns the session the matcher embeds through.
func (m *Embedding) Session() *embedding.Session {
	return m.session
}

// Match runs the routing stage (skipped for flat hierarchies) and the
// within-group stage.
func (m *Embedding) Match(ctx context.Context, query string, h *hierarchy.Hierarchy) (Result, error) {
	if h == nil || h.Len() == 0 {
		return Result{}, emptyHierarchy(h)
	}
	queryVector, err := m.session.Embed(ctx, query)
	if err != nil {
		return Result{}, err
	}

	var result Result
	groupIndex := 0
	if h.Strategy() != hierarchy.Flat {
		routing, err := h.RoutingVectors(ctx, m.session)
		if err != nil {
			return Result{}, err
		}
		scores := make([]float64, len(routing))
		for i, vector := range routing {
			scores[i] = embedding.Cosine(queryVector, vector)
		}
		groupIndex = argmax(scores)
		result.Hierarchical = true
		result.GroupScore = scores[groupIndex]
	}

	group := h.Group(groupIndex)
	result.Group = group.Key
	result.GroupLabel = group.Label
	return m.selectTool(ctx, queryVector, h, group, result)
}

// selectTool scores queryVector against every member of group and
// fills in the winner.
func (m *Embedding) selectTool(ctx context.Context, queryVector embedding.Vector, h *hierarchy.Hierarchy, group hierarchy.Group, result Result) (Result, error) {
	if len(group.ToolIDs) == 0 {
		return Result{}, &EmptyHierarchyError{Strategy: h.Strategy(), Group: group.Key}
	}
	if err := m.prefetchTools(ctx, h.Catalog()); err != nil {
		return Result{}, err
	}

	catalog := h.Catalog()
	scores := make([]float64, len(group.ToolIDs))
	for i, id := range group.ToolIDs {
		tool, err := catalog.Lookup(id)
		if err != nil {
			return Result{}, err
		}
		vector, err := m.session.Embed(ctx, tool.Text())
		if err != nil {
			return Result{}, err
		}
		scores[i] = embedding.Cosine(queryVector, vector)
	}

	best := argmax(scores)
	result.ToolID = group.ToolIDs[best]
	result.Score = scores[best]
	result.Candidates = len(group.ToolIDs)
	return result, nil
}

// prefetchTools embeds every tool text of catalog in one batch the
// first time the catalog is seen. A failed prefetch is retried on the
// next match.
func (m *Embedding) prefetchTools(ctx context.Context, catalog *toolcatalog.Catalog) error {
	if m.prefetched[catalog] {
		return nil
	}
	tools := catalog.Tools()
	texts := make([]string, len(tools))
	for i, tool := range tools {
		texts[i] = tool.Text()
	}
	if err := m.session.Prefetch(ctx, texts); err != nil {
		return err
	}
	m.prefetched[catalog] = true
	return nil
}

func emptyHierarchy(h *hierarchy.Hierarchy) error {
	err := &EmptyHierarchyError{}
	if h != nil {
		err.Strategy = h.Strategy()
	}
	return err
}
