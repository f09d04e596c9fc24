// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bm25

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Okapi parameters.
const (
	k1 = 1.2
	b  = 0.75
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Field is a piece of document text and its repetition weight.
// Non-positive weights drop the field.
type Field struct {
	Text   string
	Weight int
}

// Document is a named set of fields. The name identifies results and
// is not itself scored.
type Document struct {
	Name   string
	Fields []Field
}

// Result is a document name and its score.
type Result struct {
	Name  string
	Score float64
}

// Index holds precomputed term statistics for a fixed document set.
type Index struct {
	names       []string
	frequencies []map[string]int
	lengths     []int
	meanLength  float64
	idf         map[string]float64
}

// New indexes documents.
func New(documents []Document) *Index {
	index := &Index{
		names:       make([]string, len(documents)),
		frequencies: make([]map[string]int, len(documents)),
		lengths:     make([]int, len(documents)),
		idf:         make(map[string]float64),
	}

	containing := make(map[string]int)
	total := 0
	for i, document := range documents {
		index.names[i] = document.Name
		frequency := make(map[string]int)
		for _, field := range document.Fields {
			if field.Weight <= 0 {
				continue
			}
			for _, token := range Tokenize(field.Text) {
				frequency[token] += field.Weight
				index.lengths[i] += field.Weight
			}
		}
		for token := range frequency {
			containing[token]++
		}
		index.frequencies[i] = frequency
		total += index.lengths[i]
	}
	if len(documents) > 0 {
		index.meanLength = float64(total) / float64(len(documents))
	}

	n := float64(len(documents))
	for token, count := range containing {
		// The +1 inside the log keeps IDF positive for terms present
		// in every document.
		df := float64(count)
		index.idf[token] = math.Log(1 + (n-df+0.5)/(df+0.5))
	}
	return index
}

// Len returns the number of indexed documents.
func (index *Index) Len() int {
	return len(index.names)
}

// Scores returns the score of every document for query, in
// construction order. A query without tokens scores zero everywhere.
func (index *Index) Scores(query string) []float64 {
	scores := make([]float64, len(index.names))
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return scores
	}
	for i := range index.names {
		scores[i] = index.score(i, tokens)
	}
	return scores
}

// Search returns up to limit documents with a positive score, best
// first. A limit of zero or less returns them all.
func (index *Index) Search(query string, limit int) []Result {
	var results []Result
	for i, score := range index.Scores(query) {
		if score > 0 {
			results = append(results, Result{Name: index.names[i], Score: score})
		}
	}
	sort.SliceStable(results, func(a, c int) bool {
		return results[a].Score > results[c].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (index *Index) score(document int, tokens []string) float64 {
	frequency := index.frequencies[document]
	lengthRatio := float64(index.lengths[document]) / index.meanLength

	var score float64
	for _, token := range tokens {
		tf := float64(frequency[token])
		if tf == 0 {
			continue
		}
		score += index.idf[token] * tf * (k1 + 1) / (tf + k1*(1-b+b*lengthRatio))
	}
	return score
}

// Tokenize lowercases text and splits it into alphanumeric runs of at
// least two characters.
func Tokenize(text string) []string {
	var tokens []string
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if len(token) >= 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
