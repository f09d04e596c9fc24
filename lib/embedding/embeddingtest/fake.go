// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embeddingtest

import (
	"context"
	"slices"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
)

// Fake is a deterministic [embedding.Provider].
type Fake struct {
	// Vectors maps exact texts to the vectors returned for them.
	Vectors map[string]embedding.Vector

	// FallbackDimensions, when positive, makes texts without an entry
	// in Vectors embed via [embedding.HashVector]. When zero such texts
	// fail with a ProviderError.
	FallbackDimensions int

	// Failures maps texts to the error message returned for them.
	Failures map[string]string

	calls []string
}

// Embed returns the scripted vector for text.
func (f *Fake) Embed(ctx context.Context, text string, model embedding.ModelID) (embedding.Vector, error) {
	f.calls = append(f.calls, text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if message, ok := f.Failures[text]; ok {
		return nil, &embedding.ProviderError{Model: model, Message: message}
	}
	if vector, ok := f.Vectors[text]; ok {
		return slices.Clone(vector), nil
	}
	if f.FallbackDimensions > 0 {
		return embedding.HashVector(text, f.FallbackDimensions), nil
	}
	return nil, &embedding.ProviderError{Model: model, Message: "no scripted vector for " + text}
}

// Calls returns every text passed to Embed, in call order.
func (f *Fake) Calls() []string {
	return slices.Clone(f.calls)
}

// CallCount returns how many times text was passed to Embed.
func (f *Fake) CallCount(text string) int {
	count := 0
	for _, call := range f.calls {
		if call == text {
			count++
		}
	}
	return count
}

// Batching adds [embedding.BatchProvider] support to a Fake. Each
// batch embeds its texts through the Fake one by one, so vectors are
// identical to unbatched calls.
type Batching struct {
	*Fake

	// Batches records the texts of every EmbedBatch call.
	Batches [][]string
}

// EmbedBatch embeds texts through the wrapped Fake.
func (b *Batching) EmbedBatch(ctx context.Context, texts []string, model embedding.ModelID) ([]embedding.Vector, error) {
	b.Batches = append(b.Batches, slices.Clone(texts))
	vectors := make([]embedding.Vector, len(texts))
	for i, text := range texts {
		vector, err := b.Fake.Embed(ctx, text, model)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}
