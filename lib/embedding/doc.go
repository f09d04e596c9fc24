// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package embedding maps text to fixed-length vectors and compares them
// by cosine similarity.
//
// The only capability the rest of toolhierarchy needs from a model is
// [Provider]: embed one string under a named model. Providers that can
// embed many strings per round trip also implement [BatchProvider];
// batching never changes the vectors returned.
//
// Implementations:
//
//   - [Hashing] -- deterministic feature hashing (word and character
//     trigram features, BLAKE3 keyed, L2-normalised). Needs no network
//     and no model download; model ids look like "hashing-256".
//   - [OpenAI] -- any server speaking the OpenAI embeddings wire format
//     (OpenAI, Azure OpenAI, vLLM, Ollama, llama.cpp, text-embeddings-
//     inference).
//   - [Mux] -- routes each model id to the provider registered for it.
//   - embeddingtest.Fake -- scripted vectors and failures for tests.
//
// A [Session] is the per-run cache. It embeds each (model, text) pair
// at most once, keyed by a BLAKE3 keyed hash, and enforces a single
// dimensionality for everything it returns. Sessions are created per
// evaluation run and discarded afterwards; nothing is persisted.
// Sessions are not safe for concurrent use: an evaluation run has a
// single writer.
//
// Every provider failure, including a vector of unexpected shape, is
// reported as [*ProviderError]. Nothing retries.
package embedding
