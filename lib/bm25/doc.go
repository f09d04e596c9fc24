// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bm25 scores short documents against natural-language queries
// with the Okapi BM25 ranking function.
//
// It backs the lexical baseline matcher: tool names, descriptions, and
// group routing texts are indexed as documents made of weighted fields,
// and a query is scored against every document. Field weighting
// repeats a field's tokens Weight times in the document, which is
// enough for corpora of tens to thousands of tools.
//
// [Index.Scores] returns one score per document in construction order,
// so callers can apply their own tie-break; [Index.Search] returns the
// positive-scoring documents best first, ties kept in construction
// order.
//
// An Index is immutable once built and safe for concurrent reads.
package bm25
