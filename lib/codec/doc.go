// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// toolhierarchy report archives.
//
// Two serialization formats are in use with a clear boundary:
//
//   - JSON for anything a person reads: CLI --json output and .json
//     report archives.
//   - CBOR for compact archives (.cbor, optionally compressed) and for
//     report fingerprints.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same logical report always produces identical bytes, which is
// what makes [report.Fingerprint] meaningful across runs.
//
// Report types carry `json` struct tags only. fxamacker/cbor reads
// `json` tags when `cbor` tags are absent, so one tag controls field
// naming for both formats.
package codec
