// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"

	"github.com/bureau-foundation/toolhierarchy/lib/bm25"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
)

// Field repetition weights for lexical documents. Tool names count
// more than descriptions; tags add a little so that "email" finds
// email tools even when the description says "message".
const (
	weightName        = 3
	weightDescription = 2
	weightTag         = 1

	weightRoutingText = 2
	weightMemberName  = 1
)

// Lexical is a BM25 baseline with the same two-stage shape as
// [Embedding]. Group documents combine the routing text with member
// tool names; tool documents combine name, description, and tags.
type Lexical struct {
	indexes map[*hierarchy.Hierarchy]*lexicalIndex
}

type lexicalIndex struct {
	groups *bm25.Index
	tools  []*bm25.Index
}

// NewLexical returns a lexical matcher.
func NewLexical() *Lexical {
	return &Lexical{indexes: make(map[*hierarchy.Hierarchy]*lexicalIndex)}
}

// Name returns "lexical".
func (m *Lexical) Name() string {
	return "lexical"
}

// Match routes by BM25 over group documents and selects by BM25 over
// the winning group's tools. Scores are raw BM25 values, not cosines.
func (m *Lexical) Match(ctx context.Context, query string, h *hierarchy.Hierarchy) (Result, error) {
	if h == nil || h.Len() == 0 {
		return Result{}, emptyHierarchy(h)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	index, err := m.index(h)
	if err != nil {
		return Result{}, err
	}

	var result Result
	groupIndex := 0
	if h.Strategy() != hierarchy.Flat {
		scores := index.groups.Scores(query)
		groupIndex = argmax(scores)
		result.Hierarchical = true
		result.GroupScore = scores[groupIndex]
	}

	group := h.Group(groupIndex)
	result.Group = group.Key
	result.GroupLabel = group.Label
	if len(group.ToolIDs) == 0 {
		return Result{}, &EmptyHierarchyError{Strategy: h.Strategy(), Group: group.Key}
	}

	scores := index.tools[groupIndex].Scores(query)
	best := argmax(scores)
	result.ToolID = group.ToolIDs[best]
	result.Score = scores[best]
	result.Candidates = len(group.ToolIDs)
	return result, nil
}

// index builds and caches the BM25 indexes for h.
func (m *Lexical) index(h *hierarchy.Hierarchy) (*lexicalIndex, error) {
	if index, ok := m.indexes[h]; ok {
		return index, nil
	}

	catalog := h.Catalog()
	groups := h.Groups()
	groupDocuments := make([]bm25.Document, len(groups))
	index := &lexicalIndex{tools: make([]*bm25.Index, len(groups))}
	for i, group := range groups {
		groupFields := []bm25.Field{{Text: group.RoutingText(), Weight: weightRoutingText}}
		toolDocuments := make([]bm25.Document, len(group.ToolIDs))
		for j, id := range group.ToolIDs {
			tool, err := catalog.Lookup(id)
			if err != nil {
				return nil, err
			}
			groupFields = append(groupFields, bm25.Field{Text: tool.Name, Weight: weightMemberName})
			toolDocuments[j] = bm25.Document{Name: id, Fields: []bm25.Field{
				{Text: tool.Name, Weight: weightName},
				{Text: tool.Description, Weight: weightDescription},
				{Text: tool.Domain, Weight: weightTag},
				{Text: tool.Action, Weight: weightTag},
			}}
		}
		groupDocuments[i] = bm25.Document{Name: group.Key, Fields: groupFields}
		index.tools[i] = bm25.New(toolDocuments)
	}
	index.groups = bm25.New(groupDocuments)
	m.indexes[h] = index
	return index, nil
}
