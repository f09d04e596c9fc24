// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package report turns evaluation reports into comparison tables and
// saved archives.
//
// A [Table] has one row per (strategy, model) run with overall
// accuracy, per-domain and per-action breakdowns, top confusion pairs
// and mean latency, plus an optional section per scale sweep. It
// renders in five formats:
//
//   - text: aligned plain columns (text/tabwriter)
//   - table: a bordered lipgloss table, with ANSI-aware truncation of
//     long cells and colour only when the caller enables it
//   - markdown: GitHub-flavoured markdown tables
//   - html: the markdown rendering converted by goldmark
//   - json: the full underlying reports, syntax-highlighted when
//     colour is enabled
//
// An [Archive] stores a run's reports with a run id, build info and a
// fingerprint. Archives are written as JSON or deterministic CBOR, and
// a ".zst" or ".lz4" suffix compresses the file. The fingerprint is the
// BLAKE3 hash of the reports' deterministic CBOR encoding, so two runs
// that produced identical reports have identical fingerprints no matter
// when they ran.
package report
