// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"
	"testing"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding/embeddingtest"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// weightedFixture has two domains and two actions, one tool per
// composite group. The query leans strongly toward the email domain
// and weakly toward the delete action.
func weightedFixture(t *testing.T) (*hierarchy.Hierarchy, *embeddingtest.Fake) {
	t.Helper()
	catalog, err := toolcatalog.NewCatalog([]toolcatalog.Tool{
		{ID: "email_send", Description: "send email", Domain: "email", Action: "write"},
		{ID: "file_delete", Description: "delete file", Domain: "file", Action: "delete"},
		{ID: "email_delete", Description: "delete email", Domain: "email", Action: "delete"},
		{ID: "file_write", Description: "write file", Domain: "file", Action: "write"},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	h, err := hierarchy.Build(catalog, hierarchy.ByDomainAction)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Axes: [email, file, write, delete].
	fake := &embeddingtest.Fake{Vectors: map[string]embedding.Vector{
		"query": {0.8, 0, 0, 0.2},
		"email operations: tools that work with email resources": {1, 0, 0, 0},
		"file operations: tools that work with file resources":   {0, 1, 0, 0},
		"write operations: tools that write data":                {0, 0, 1, 0},
		"delete operations: tools that delete data":              {0, 0, 0, 1},
		"send email":   {0.7, 0, 0.7, 0},
		"delete email": {0.7, 0, 0, 0.7},
		"delete file":  {0, 0.7, 0, 0.7},
		"write file":   {0, 0.7, 0.7, 0},
	}}
	return h, fake
}

func TestWeightedBlendsDomainAndAction(t *testing.T) {
	h, fake := weightedFixture(t)
	session := embedding.NewSession(fake, "fake")

	tests := []struct {
		weight    float64
		wantGroup string
	}{
		// Domain only: both email groups tie; email/delete sorts first.
		{1, "email/delete"},
		// Action only: email/delete and file/delete tie; email first.
		{0, "email/delete"},
		{0.5, "email/delete"},
	}
	for _, test := range tests {
		matcher, err := NewWeighted(session, test.weight)
		if err != nil {
			t.Fatalf("NewWeighted(%v): %v", test.weight, err)
		}
		result, err := matcher.Match(context.Background(), "query", h)
		if err != nil {
			t.Fatalf("Match: %v", err)
		}
		if result.Group != test.wantGroup || result.ToolID != "email_delete" {
			t.Errorf("w=%v: result = %+v, want group %s", test.weight, result, test.wantGroup)
		}
		if !result.Hierarchical || result.Candidates != 1 {
			t.Errorf("w=%v: result = %+v", test.weight, result)
		}
	}
}

func TestWeightedGroupScoreIsBlend(t *testing.T) {
	h, fake := weightedFixture(t)
	session := embedding.NewSession(fake, "fake")
	matcher, err := NewWeighted(session, 0.25)
	if err != nil {
		t.Fatalf("NewWeighted: %v", err)
	}
	result, err := matcher.Match(context.Background(), "query", h)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}

	query := embedding.Vector{0.8, 0, 0, 0.2}
	want := 0.25*embedding.Cosine(query, embedding.Vector{1, 0, 0, 0}) +
		0.75*embedding.Cosine(query, embedding.Vector{0, 0, 0, 1})
	if diff := result.GroupScore - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("GroupScore = %v, want %v", result.GroupScore, want)
	}
}

func TestWeightedRejectsOtherHierarchies(t *testing.T) {
	h, fake := weightedFixture(t)
	byDomain, err := hierarchy.Build(h.Catalog(), hierarchy.ByDomain)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	matcher, err := NewWeighted(embedding.NewSession(fake, "fake"), 0.5)
	if err != nil {
		t.Fatalf("NewWeighted: %v", err)
	}
	if _, err := matcher.Match(context.Background(), "query", byDomain); err == nil {
		t.Error("weighted matcher accepted a domain hierarchy")
	}
}

func TestNewWeightedBounds(t *testing.T) {
	session := embedding.NewSession(&embeddingtest.Fake{}, "fake")
	for _, weight := range []float64{-0.01, 1.01} {
		if _, err := NewWeighted(session, weight); err == nil {
			t.Errorf("NewWeighted(%v) succeeded", weight)
		}
	}
	for _, weight := range []float64{0, 1} {
		if _, err := NewWeighted(session, weight); err != nil {
			t.Errorf("NewWeighted(%v): %v", weight, err)
		}
	}
}
