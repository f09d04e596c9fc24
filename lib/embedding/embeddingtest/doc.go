// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package embeddingtest provides scripted embedding providers for
// tests.
//
// [Fake] returns fixed vectors for known texts, falls back to
// [embedding.HashVector] for everything else when FallbackDimensions is
// set, injects failures for chosen texts, and records every call so
// tests can assert on cache behaviour. [Batching] wraps a Fake with an
// EmbedBatch method to exercise the batch path.
package embeddingtest
