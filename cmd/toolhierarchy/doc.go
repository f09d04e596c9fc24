// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Toolhierarchy evaluates hierarchical tool selection: it groups a tool
// catalog by domain, action, or both, matches labelled natural-language
// queries through the hierarchy by embedding similarity, and compares
// the accuracy of each strategy against a flat search.
//
// Usage:
//
//	toolhierarchy [--config run.yaml] <command> [flags]
//
// Commands:
//
//	evaluate          Evaluate one strategy under one model
//	compare           Compare strategies across embedding models
//	scale             Measure accuracy as the catalog grows
//	match             Match a request to a tool
//	catalog list      List the tools of the dataset
//	catalog show      Show one tool and its labelled queries
//	catalog validate  Validate a dataset file
//	report show       Render a saved archive
//	version           Print version information
//
// Errors exit with 2 for invalid input, 3 for a missing tool, model,
// or file, 4 for transient embedding endpoint failures, and 1
// otherwise.
package main
