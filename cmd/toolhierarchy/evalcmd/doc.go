// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package evalcmd implements the evaluate, compare, and scale
// commands.
//
// evaluate runs one strategy under one model and prints its report
// with every failure. compare runs the cross product of the configured
// (or selected) strategies and models and renders the comparison
// table. scale sweeps synthetic catalogs of increasing size under one
// strategy and model.
//
// compare and scale share the output flags: --format picks the
// renderer, --archive saves a fingerprinted archive that "report show"
// can re-render later, and --metrics-file writes the run's Prometheus
// metrics in textfile-collector format. Each flag falls back to the
// config's output section.
package evalcmd
