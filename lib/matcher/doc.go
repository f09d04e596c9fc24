// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package matcher selects the tool a query most likely wants under a
// given hierarchy.
//
// Three matchers share the [Matcher] interface:
//
//   - [Embedding] is the two-stage cosine matcher. The query is
//     embedded once, scored against every group's routing vector, and
//     then against the member tools of the best group only. A flat
//     hierarchy skips routing and scans every tool. At both stages the
//     maximum wins and ties go to the first candidate in lexical order.
//   - [Weighted] routes over a domain+action hierarchy by blending a
//     domain score and an action score with an explicit weight, then
//     picks the best member of the winning group.
//   - [Lexical] is the same two-stage shape scored with BM25 instead of
//     embeddings, a baseline that needs no model.
//
// Tool and routing vectors come from the run's [embedding.Session], so
// each text is embedded at most once per model. Tool texts are
// prefetched in a single batch the first time a matcher sees a
// hierarchy.
//
// A hierarchy with no groups, or a winning group with no tools, fails
// with [*EmptyHierarchyError]; callers treat that as "no match".
// Provider failures are returned unmodified.
package matcher
