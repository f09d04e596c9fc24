// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding/embeddingtest"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

const (
	readDescription  = "reads a file from disk"
	writeDescription = "writes a file to disk"
	documentQuery    = "load the contents of a document"
)

// fileCatalog is the two-tool catalog: A reads, B writes.
func fileCatalog(t *testing.T) *toolcatalog.Catalog {
	t.Helper()
	catalog, err := toolcatalog.NewCatalog([]toolcatalog.Tool{
		{ID: "A", Description: readDescription, Domain: "file", Action: "read"},
		{ID: "B", Description: writeDescription, Domain: "file", Action: "write"},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return catalog
}

// fileFake scripts A and B on orthogonal axes and places the query at
// the given point. Routing texts land on the matching axis.
func fileFake(query embedding.Vector) *embeddingtest.Fake {
	return &embeddingtest.Fake{
		Vectors: map[string]embedding.Vector{
			readDescription:                           {1, 0},
			writeDescription:                          {0, 1},
			documentQuery:                             query,
			"read operations: tools that read data":   {1, 0},
			"write operations: tools that write data": {0, 1},
			"file read operations: tools that work with file resources; tools that read data":   {1, 0},
			"file write operations: tools that work with file resources; tools that write data": {0, 1},
		},
		FallbackDimensions: 2,
	}
}

func mustBuild(t *testing.T, catalog *toolcatalog.Catalog, strategy hierarchy.Strategy) *hierarchy.Hierarchy {
	t.Helper()
	h, err := hierarchy.Build(catalog, strategy)
	if err != nil {
		t.Fatalf("Build(%s): %v", strategy, err)
	}
	return h
}

func TestEmbeddingMatchesScriptedTool(t *testing.T) {
	catalog := fileCatalog(t)

	for _, strategy := range hierarchy.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			fake := fileFake(embedding.Vector{0.9, 0.1})
			session := embedding.NewSession(fake, "fake")
			result, err := NewEmbedding(session).Match(context.Background(), documentQuery, mustBuild(t, catalog, strategy))
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if result.ToolID != "A" {
				t.Fatalf("ToolID = %s, want A", result.ToolID)
			}

			queryVector, _ := session.Embed(context.Background(), documentQuery)
			otherVector, _ := session.Embed(context.Background(), writeDescription)
			if otherScore := embedding.Cosine(queryVector, otherVector); result.Score <= otherScore {
				t.Errorf("A scored %v, not above B's %v", result.Score, otherScore)
			}
			if result.Hierarchical != (strategy != hierarchy.Flat) {
				t.Errorf("Hierarchical = %v for %s", result.Hierarchical, strategy)
			}
		})
	}
}

func TestEmbeddingMatchesWrongToolWhenScriptedSo(t *testing.T) {
	catalog := fileCatalog(t)
	session := embedding.NewSession(fileFake(embedding.Vector{0.1, 0.9}), "fake")

	result, err := NewEmbedding(session).Match(context.Background(), documentQuery, mustBuild(t, catalog, hierarchy.ByDomain))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.ToolID != "B" {
		t.Errorf("ToolID = %s, want B", result.ToolID)
	}
}

func TestEmbeddingResultFields(t *testing.T) {
	catalog := fileCatalog(t)
	session := embedding.NewSession(fileFake(embedding.Vector{0.9, 0.1}), "fake")

	result, err := NewEmbedding(session).Match(context.Background(), documentQuery, mustBuild(t, catalog, hierarchy.ByAction))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.Group != "read" || result.GroupLabel != "read" {
		t.Errorf("group = %q/%q, want read", result.Group, result.GroupLabel)
	}
	if result.GroupScore <= 0.9 || result.Candidates != 1 {
		t.Errorf("result = %+v", result)
	}

	flat, err := NewEmbedding(session).Match(context.Background(), documentQuery, mustBuild(t, catalog, hierarchy.Flat))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if flat.Group != "" || flat.GroupLabel != "all tools" || flat.GroupScore != 0 || flat.Candidates != 2 {
		t.Errorf("flat result = %+v", flat)
	}
}

func TestFlatMatchEqualsBruteForce(t *testing.T) {
	dataset, err := toolcatalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	const dimensions = 96
	session := embedding.NewSession(&embeddingtest.Fake{FallbackDimensions: dimensions}, "fake")
	matcher := NewEmbedding(session)
	flat := mustBuild(t, dataset.Catalog, hierarchy.Flat)

	for _, query := range dataset.Queries {
		result, err := matcher.Match(context.Background(), query.Query, flat)
		if err != nil {
			t.Fatalf("Match(%q): %v", query.Query, err)
		}

		queryVector := embedding.HashVector(query.Query, dimensions)
		bestID, bestScore := "", 0.0
		for _, id := range dataset.Catalog.IDs() {
			tool, _ := dataset.Catalog.Lookup(id)
			score := embedding.Cosine(queryVector, embedding.HashVector(tool.Text(), dimensions))
			if bestID == "" || score > bestScore {
				bestID, bestScore = id, score
			}
		}

		if result.ToolID != bestID || result.Score != bestScore {
			t.Errorf("%q: match = %s (%v), brute force = %s (%v)",
				query.Query, result.ToolID, result.Score, bestID, bestScore)
		}
	}
}

func TestTieBreaksPreferLexicalOrder(t *testing.T) {
	catalog, err := toolcatalog.NewCatalog([]toolcatalog.Tool{
		{ID: "zeta", Description: "same text z", Domain: "web", Action: "read"},
		{ID: "alpha", Description: "same text a", Domain: "disk", Action: "read"},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	fake := &embeddingtest.Fake{Vectors: map[string]embedding.Vector{
		"same text z": {1, 0},
		"same text a": {1, 0},
		"query":       {1, 0},
		"web operations: tools that work with web resources":   {0, 1},
		"disk operations: tools that work with disk resources": {0, 1},
		"read operations: tools that read data":                {1, 1},
	}}
	session := embedding.NewSession(fake, "fake")

	for _, strategy := range []hierarchy.Strategy{hierarchy.Flat, hierarchy.ByDomain, hierarchy.ByAction} {
		result, err := NewEmbedding(session).Match(context.Background(), "query", mustBuild(t, catalog, strategy))
		if err != nil {
			t.Fatalf("%s: Match: %v", strategy, err)
		}
		if result.ToolID != "alpha" {
			t.Errorf("%s: ToolID = %s, want alpha", strategy, result.ToolID)
		}
	}

	byDomain, _ := NewEmbedding(session).Match(context.Background(), "query", mustBuild(t, catalog, hierarchy.ByDomain))
	if byDomain.Group != "disk" {
		t.Errorf("tied routing chose %q, want disk", byDomain.Group)
	}
}

func TestToolTextsEmbeddedOnce(t *testing.T) {
	dataset, err := toolcatalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	batching := &embeddingtest.Batching{Fake: &embeddingtest.Fake{FallbackDimensions: 32}}
	session := embedding.NewSession(batching, "fake")
	matcher := NewEmbedding(session)
	h := mustBuild(t, dataset.Catalog, hierarchy.ByDomain)

	for _, query := range dataset.Queries {
		if _, err := matcher.Match(context.Background(), query.Query, h); err != nil {
			t.Fatalf("Match: %v", err)
		}
	}

	for _, tool := range dataset.Catalog.Tools() {
		if got := batching.CallCount(tool.Text()); got != 1 {
			t.Errorf("%s embedded %d times, want 1", tool.ID, got)
		}
	}
	for _, group := range h.Groups() {
		if got := batching.CallCount(group.RoutingText()); got != 1 {
			t.Errorf("routing text of %s embedded %d times, want 1", group.Key, got)
		}
	}
	if len(batching.Batches) != 2 {
		t.Errorf("got %d batches, want 2 (routing texts, tool texts)", len(batching.Batches))
	}
}

func TestEmptyHierarchy(t *testing.T) {
	session := embedding.NewSession(&embeddingtest.Fake{FallbackDimensions: 4}, "fake")
	for _, matcher := range []Matcher{NewEmbedding(session), NewLexical()} {
		_, err := matcher.Match(context.Background(), "anything", &hierarchy.Hierarchy{})
		var empty *EmptyHierarchyError
		if !errors.As(err, &empty) {
			t.Errorf("%s: error = %v, want *EmptyHierarchyError", matcher.Name(), err)
		}
	}
}

func TestProviderErrorsPropagate(t *testing.T) {
	catalog := fileCatalog(t)
	fake := fileFake(embedding.Vector{1, 0})
	fake.Failures = map[string]string{"broken query": "model unavailable"}
	session := embedding.NewSession(fake, "fake")

	_, err := NewEmbedding(session).Match(context.Background(), "broken query", mustBuild(t, catalog, hierarchy.ByDomain))
	var providerErr *embedding.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Message != "model unavailable" {
		t.Fatalf("error = %v, want provider error", err)
	}
}

func TestForMethod(t *testing.T) {
	session := embedding.NewSession(&embeddingtest.Fake{FallbackDimensions: 4}, "fake")

	tests := []struct {
		method   string
		options  Options
		wantName string
		wantErr  string
	}{
		{"embedding", Options{Session: session}, "embedding", ""},
		{"", Options{Session: session}, "embedding", ""},
		{"weighted", Options{Session: session, DomainWeight: 0.25}, "weighted(0.25)", ""},
		{"lexical", Options{}, "lexical", ""},
		{"embedding", Options{}, "", "needs an embedding session"},
		{"weighted", Options{Session: session, DomainWeight: 2}, "", "must be in [0, 1]"},
		{"neural", Options{}, "", "unknown method"},
	}
	for _, test := range tests {
		matcher, err := ForMethod(test.method, test.options)
		if test.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("ForMethod(%q) error = %v, want %q", test.method, err, test.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForMethod(%q): %v", test.method, err)
			continue
		}
		if matcher.Name() != test.wantName {
			t.Errorf("ForMethod(%q).Name() = %q, want %q", test.method, matcher.Name(), test.wantName)
		}
	}
}
