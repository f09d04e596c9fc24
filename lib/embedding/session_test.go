// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding/embeddingtest"
)

func TestSessionEmbedsEachTextOnce(t *testing.T) {
	fake := &embeddingtest.Fake{FallbackDimensions: 32}
	session := embedding.NewSession(fake, "fake")
	ctx := context.Background()

	for range 3 {
		if _, err := session.Embed(ctx, "reads a file"); err != nil {
			t.Fatalf("Embed: %v", err)
		}
	}
	if got := fake.CallCount("reads a file"); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}

	stats := session.Stats()
	if stats.ProviderCalls != 1 || stats.CacheHits != 2 || stats.TextsEmbedded != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if session.Dimensions() != 32 {
		t.Errorf("Dimensions() = %d, want 32", session.Dimensions())
	}
}

func TestSessionCacheIsPerModel(t *testing.T) {
	fake := &embeddingtest.Fake{FallbackDimensions: 8}
	ctx := context.Background()

	first := embedding.NewSession(fake, "model-a")
	second := embedding.NewSession(fake, "model-b")
	if _, err := first.Embed(ctx, "text"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if second.Cached("text") {
		t.Error("a fresh session reports a cached vector")
	}
	if _, err := second.Embed(ctx, "text"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if got := fake.CallCount("text"); got != 2 {
		t.Errorf("provider called %d times across two sessions, want 2", got)
	}
}

func TestSessionRejectsDimensionChange(t *testing.T) {
	fake := &embeddingtest.Fake{Vectors: map[string]embedding.Vector{
		"short": {1, 0},
		"long":  {1, 0, 0},
	}}
	session := embedding.NewSession(fake, "fake")
	ctx := context.Background()

	if _, err := session.Embed(ctx, "short"); err != nil {
		t.Fatalf("Embed(short): %v", err)
	}
	_, err := session.Embed(ctx, "long")
	var providerErr *embedding.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Embed(long) error = %v, want *ProviderError", err)
	}
	if session.Cached("long") {
		t.Error("vector of wrong shape was cached")
	}
}

type plainErrorProvider struct{}

func (plainErrorProvider) Embed(context.Context, string, embedding.ModelID) (embedding.Vector, error) {
	return nil, errors.New("socket closed")
}

func TestSessionErrors(t *testing.T) {
	ctx := context.Background()

	fake := &embeddingtest.Fake{Failures: map[string]string{"bad": "quota exceeded"}}
	_, err := embedding.NewSession(fake, "fake").Embed(ctx, "bad")
	var providerErr *embedding.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Message != "quota exceeded" {
		t.Errorf("provider error not surfaced unmodified: %v", err)
	}

	_, err = embedding.NewSession(plainErrorProvider{}, "plain").Embed(ctx, "x")
	if !errors.As(err, &providerErr) || providerErr.Model != "plain" || providerErr.Err == nil {
		t.Errorf("plain error not wrapped as ProviderError: %v", err)
	}
}

func TestPrefetchMatchesOneAtATime(t *testing.T) {
	texts := []string{"read file", "write file", "read file", "send email"}
	ctx := context.Background()

	batching := &embeddingtest.Batching{Fake: &embeddingtest.Fake{FallbackDimensions: 64}}
	batched := embedding.NewSession(batching, "fake")
	if err := batched.Prefetch(ctx, texts); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if len(batching.Batches) != 1 || len(batching.Batches[0]) != 3 {
		t.Fatalf("batches = %v, want one batch of 3 distinct texts", batching.Batches)
	}

	plain := embedding.NewSession(&embeddingtest.Fake{FallbackDimensions: 64}, "fake")
	if err := plain.Prefetch(ctx, texts); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	for _, text := range texts {
		a, err := batched.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed: %v", err)
		}
		b, err := plain.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed: %v", err)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%q differs between batched and unbatched sessions", text)
			}
		}
	}

	// Everything was prefetched, so no further batches are issued.
	if err := batched.Prefetch(ctx, texts); err != nil {
		t.Fatalf("second Prefetch: %v", err)
	}
	if len(batching.Batches) != 1 {
		t.Errorf("second Prefetch issued another batch")
	}
	if stats := batched.Stats(); stats.BatchCalls != 1 || stats.TextsEmbedded != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStatsArithmetic(t *testing.T) {
	before := embedding.Stats{ProviderCalls: 2, BatchCalls: 1, TextsEmbedded: 5, CacheHits: 3}
	after := embedding.Stats{ProviderCalls: 4, BatchCalls: 2, TextsEmbedded: 9, CacheHits: 10}

	delta := after.Sub(before)
	want := embedding.Stats{ProviderCalls: 2, BatchCalls: 1, TextsEmbedded: 4, CacheHits: 7}
	if delta != want {
		t.Errorf("Sub = %+v, want %+v", delta, want)
	}
	if delta.Requests() != 3 {
		t.Errorf("Requests = %d, want 3", delta.Requests())
	}

	total := before
	total.Add(delta)
	if total != after {
		t.Errorf("Add = %+v, want %+v", total, after)
	}
}
