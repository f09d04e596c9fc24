// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"fmt"
	"math"
)

// ModelID names an embedding model (e.g. "hashing-256",
// "text-embedding-3-small").
type ModelID string

// Vector is an embedding. Vectors are compared only by [Cosine], never
// for exact equality.
type Vector []float64

// Provider embeds text under a model. Implementations must be
// deterministic for a given (text, model) within one run.
type Provider interface {
	Embed(ctx context.Context, text string, model ModelID) (Vector, error)
}

// BatchProvider is implemented by providers that can embed several
// texts in one call. The result has one vector per text, in order, and
// each vector is identical to what Embed returns for that text.
type BatchProvider interface {
	Provider
	EmbedBatch(ctx context.Context, texts []string, model ModelID) ([]Vector, error)
}

// ProviderError reports a failed embedding call or a vector of
// unexpected shape.
type ProviderError struct {
	// Model is the model the call was made for.
	Model ModelID

	// StatusCode is the HTTP status for remote providers, zero
	// otherwise.
	StatusCode int

	// Type is the provider-specific error type string, when the
	// provider reports one.
	Type string

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (err *ProviderError) Error() string {
	message := err.Message
	if err.Type != "" {
		message = err.Type + ": " + message
	}
	if err.StatusCode != 0 {
		message = fmt.Sprintf("HTTP %d: %s", err.StatusCode, message)
	}
	if err.Err != nil {
		message += ": " + err.Err.Error()
	}
	return fmt.Sprintf("embedding: model %s: %s", err.Model, message)
}

func (err *ProviderError) Unwrap() error {
	return err.Err
}

// Cosine returns the cosine similarity of a and b, in [-1, 1]. A zero
// vector has similarity 0 with everything. Panics if the lengths
// differ; a [Session] guarantees they do not.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("embedding.Cosine: length mismatch %d vs %d", len(a), len(b)))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push parallel vectors just past 1.
	return math.Max(-1, math.Min(1, similarity))
}

// checkShape validates a vector returned for model against the
// expected dimensionality (zero means not yet known).
func checkShape(model ModelID, vector Vector, dimensions int) error {
	if len(vector) == 0 {
		return &ProviderError{Model: model, Message: "provider returned an empty vector"}
	}
	if dimensions != 0 && len(vector) != dimensions {
		return &ProviderError{
			Model:   model,
			Message: fmt.Sprintf("provider returned %d dimensions, run expects %d", len(vector), dimensions),
		}
	}
	for i, value := range vector {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return &ProviderError{Model: model, Message: fmt.Sprintf("provider returned non-finite value at index %d", i)}
		}
	}
	return nil
}
