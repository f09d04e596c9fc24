// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bm25

import (
	"slices"
	"testing"
)

func toolDocument(name, description string) Document {
	return Document{Name: name, Fields: []Field{
		{Text: name, Weight: 3},
		{Text: description, Weight: 2},
	}}
}

func catalogIndex() *Index {
	return New([]Document{
		toolDocument("Read File", "Read the contents of a file from disk"),
		toolDocument("Write File", "Write contents to a file on disk"),
		toolDocument("Query Database", "Execute a SELECT query on the database"),
		toolDocument("Send Email", "Send an email message to recipients"),
		toolDocument("Cancel Calendar Event", "Cancel a meeting on the calendar"),
	})
}

func TestSearchRanksMatchingTool(t *testing.T) {
	index := catalogIndex()

	tests := []struct {
		query     string
		wantFirst string
	}{
		{"read the config file", "Read File"},
		{"write data to disk", "Write File"},
		{"select rows from the database", "Query Database"},
		{"email the team", "Send Email"},
		{"cancel my meeting", "Cancel Calendar Event"},
	}
	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			results := index.Search(test.query, 3)
			if len(results) == 0 {
				t.Fatal("expected results, got none")
			}
			if results[0].Name != test.wantFirst {
				t.Errorf("top result = %q (%.3f), want %q", results[0].Name, results[0].Score, test.wantFirst)
			}
		})
	}
}

func TestScoresAlignWithDocuments(t *testing.T) {
	index := catalogIndex()
	scores := index.Scores("send email")
	if len(scores) != index.Len() {
		t.Fatalf("%d scores for %d documents", len(scores), index.Len())
	}
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	if best != 3 {
		t.Errorf("best document = %d, want 3 (Send Email)", best)
	}

	for _, score := range index.Scores("?? a") {
		if score != 0 {
			t.Errorf("tokenless query scored %v", score)
		}
	}
}

func TestSearchTiesKeepDocumentOrder(t *testing.T) {
	index := New([]Document{
		{Name: "first", Fields: []Field{{Text: "shared words", Weight: 1}}},
		{Name: "second", Fields: []Field{{Text: "shared words", Weight: 1}}},
		{Name: "third", Fields: []Field{{Text: "other words", Weight: 1}}},
	})
	results := index.Search("shared", 0)
	var names []string
	for _, result := range results {
		names = append(names, result.Name)
	}
	if !slices.Equal(names, []string{"first", "second"}) {
		t.Errorf("results = %v", names)
	}
}

func TestSearchEdgeCases(t *testing.T) {
	if results := New(nil).Search("anything", 5); len(results) != 0 {
		t.Errorf("empty index returned %d results", len(results))
	}
	if results := catalogIndex().Search("zzzzzz", 5); len(results) != 0 {
		t.Errorf("non-matching query returned %d results", len(results))
	}
	if results := catalogIndex().Search("file", 1); len(results) != 1 {
		t.Errorf("limit 1 returned %d results", len(results))
	}
	skipped := New([]Document{{Name: "x", Fields: []Field{{Text: "hidden", Weight: 0}}}})
	if results := skipped.Search("hidden", 5); len(results) != 0 {
		t.Errorf("zero-weight field was indexed")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Read a FILE from /etc/config.json!")
	want := []string{"read", "file", "from", "etc", "config", "json"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestCommonTermsStillScore(t *testing.T) {
	index := New([]Document{
		{Name: "a", Fields: []Field{{Text: "file read", Weight: 1}}},
		{Name: "b", Fields: []Field{{Text: "file write", Weight: 1}}},
		{Name: "c", Fields: []Field{{Text: "file delete", Weight: 1}}},
	})
	for i, score := range index.Scores("file") {
		if score <= 0 {
			t.Errorf("document %d scored %v for a term every document has, want positive", i, score)
		}
	}
	// A rarer term outweighs the common one.
	scores := index.Scores("file write")
	if scores[1] <= scores[0] {
		t.Errorf("scores = %v, want the write document ahead", scores)
	}
}
