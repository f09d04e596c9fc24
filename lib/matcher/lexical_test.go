// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"context"
	"testing"

	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

func TestLexicalMatchesBuiltinQueries(t *testing.T) {
	dataset, err := toolcatalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	matcher := NewLexical()

	tests := []struct {
		query string
		want  string
	}{
		{"Send an email to the team", "email_send"},
		{"Run a SELECT query to find orders from last week", "db_query"},
		{"Cancel my 3pm meeting", "calendar_delete"},
	}
	for _, strategy := range hierarchy.Strategies {
		h, err := hierarchy.BuildWithIntents(dataset.Catalog, strategy, dataset.Intents)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for _, test := range tests {
			result, err := matcher.Match(context.Background(), test.query, h)
			if err != nil {
				t.Fatalf("%s: Match(%q): %v", strategy, test.query, err)
			}
			if result.ToolID != test.want {
				t.Errorf("%s: Match(%q) = %s (group %q), want %s",
					strategy, test.query, result.ToolID, result.Group, test.want)
			}
		}
	}
}

func TestLexicalTokenlessQueryFallsBackToFirst(t *testing.T) {
	dataset, err := toolcatalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	h, err := hierarchy.Build(dataset.Catalog, hierarchy.ByDomain)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	result, err := NewLexical().Match(context.Background(), "?!", h)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if result.Group != "api" || result.ToolID != "api_delete" || result.Score != 0 {
		t.Errorf("result = %+v, want first group and first tool with zero score", result)
	}
}

func TestLexicalHonoursCancellation(t *testing.T) {
	dataset, err := toolcatalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	h, err := hierarchy.Build(dataset.Catalog, hierarchy.Flat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLexical().Match(ctx, "read file", h); err == nil {
		t.Error("expected error from cancelled context")
	}
}
