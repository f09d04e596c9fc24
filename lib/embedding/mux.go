// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"sort"
)

// Mux routes each model id to the provider registered for it, so one
// evaluation can compare models served by different backends.
type Mux struct {
	providers map[ModelID]Provider
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{providers: make(map[ModelID]Provider)}
}

// Register serves model with provider, replacing any earlier entry.
func (m *Mux) Register(model ModelID, provider Provider) {
	m.providers[model] = provider
}

// Models returns the registered model ids in lexical order.
func (m *Mux) Models() []ModelID {
	models := make([]ModelID, 0, len(m.providers))
	for model := range m.providers {
		models = append(models, model)
	}
	sort.Slice(models, func(a, b int) bool { return models[a] < models[b] })
	return models
}

// Provider returns the provider registered for model.
func (m *Mux) Provider(model ModelID) (Provider, bool) {
	provider, ok := m.providers[model]
	return provider, ok
}

// Embed forwards to the provider registered for model.
func (m *Mux) Embed(ctx context.Context, text string, model ModelID) (Vector, error) {
	provider, err := m.lookup(model)
	if err != nil {
		return nil, err
	}
	return provider.Embed(ctx, text, model)
}

// EmbedBatch forwards to the registered provider, batching when it
// supports batches and embedding one text at a time otherwise.
func (m *Mux) EmbedBatch(ctx context.Context, texts []string, model ModelID) ([]Vector, error) {
	provider, err := m.lookup(model)
	if err != nil {
		return nil, err
	}
	if batcher, ok := provider.(BatchProvider); ok {
		return batcher.EmbedBatch(ctx, texts, model)
	}
	vectors := make([]Vector, len(texts))
	for i, text := range texts {
		vector, err := provider.Embed(ctx, text, model)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (m *Mux) lookup(model ModelID) (Provider, error) {
	provider, ok := m.providers[model]
	if !ok {
		return nil, &ProviderError{Model: model, Message: "no provider registered for model"}
	}
	return provider, nil
}
