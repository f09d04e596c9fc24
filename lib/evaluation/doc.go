// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package evaluation measures how accurately a matcher selects tools
// under a hierarchy, and compares hierarchy strategies, embedding
// models, and catalog sizes.
//
// [Evaluator.Evaluate] runs a labelled query set through one
// (hierarchy, matcher) pair and produces a [Report]: overall accuracy,
// accuracy per expected domain and per expected action, confusion
// pairs, per-query failures, and latency statistics. Queries the
// matcher could not answer (provider errors, empty hierarchies) are
// recorded as failures and excluded from every accuracy figure.
// Cancelling the context aborts the run.
//
// [Evaluator.CompareStrategies] evaluates the full strategy × model
// cross product, building a fresh hierarchy and a fresh
// [embedding.Session] for each run so embeddings never leak between
// runs. [Evaluator.EvaluateAtScale] regenerates the dataset for each
// requested tool count and evaluates one strategy against it.
//
// Latency is measured with the evaluator's [clock.Clock], so tests
// that inject a fake clock get exact, repeatable timings. Reports carry
// no wall-clock timestamps of their own: evaluating the same inputs
// twice with the same clock produces identical reports.
//
// When an evaluator has [Metrics], every run also updates prometheus
// collectors registered on a caller-supplied registry.
package evaluation
