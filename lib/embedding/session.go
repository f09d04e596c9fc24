// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/zeebo/blake3"
)

// cacheKey is the BLAKE3 keyed hash of a (model, text) pair.
type cacheKey [32]byte

// cacheDomainKey keys the session cache hash. The bytes are the ASCII
// domain name zero-padded to 32.
var cacheDomainKey = [32]byte{
	't', 'o', 'o', 'l', 'h', 'i', 'e', 'r', 'a', 'r', 'c', 'h', 'y', '.', 'c', 'a',
	'c', 'h', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Stats counts provider traffic for one session.
type Stats struct {
	// ProviderCalls is the number of Embed calls made to the provider.
	ProviderCalls int `json:"provider_calls"`

	// BatchCalls is the number of EmbedBatch calls made to the provider.
	BatchCalls int `json:"batch_calls"`

	// TextsEmbedded is the number of distinct texts the provider was
	// asked for.
	TextsEmbedded int `json:"texts_embedded"`

	// CacheHits is the number of lookups answered from the cache.
	CacheHits int `json:"cache_hits"`
}

// Requests is the number of provider requests, single and batched.
func (s Stats) Requests() int {
	return s.ProviderCalls + s.BatchCalls
}

// Sub returns the traffic recorded between earlier and s.
func (s Stats) Sub(earlier Stats) Stats {
	return Stats{
		ProviderCalls: s.ProviderCalls - earlier.ProviderCalls,
		BatchCalls:    s.BatchCalls - earlier.BatchCalls,
		TextsEmbedded: s.TextsEmbedded - earlier.TextsEmbedded,
		CacheHits:     s.CacheHits - earlier.CacheHits,
	}
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.ProviderCalls += other.ProviderCalls
	s.BatchCalls += other.BatchCalls
	s.TextsEmbedded += other.TextsEmbedded
	s.CacheHits += other.CacheHits
}

// Session embeds text under one model for one evaluation run, caching
// every vector it obtains. Failed calls are not cached.
type Session struct {
	provider   Provider
	model      ModelID
	cache      map[cacheKey]Vector
	dimensions int
	stats      Stats
}

// NewSession returns an empty session embedding under model.
func NewSession(provider Provider, model ModelID) *Session {
	return &Session{
		provider: provider,
		model:    model,
		cache:    make(map[cacheKey]Vector),
	}
}

// Model returns the session's model.
func (s *Session) Model() ModelID {
	return s.model
}

// Dimensions returns the vector length fixed by the first successful
// call, or zero before any.
func (s *Session) Dimensions() int {
	return s.dimensions
}

// Stats returns a snapshot of provider traffic.
func (s *Session) Stats() Stats {
	return s.stats
}

// Embed returns the vector for text, calling the provider only on the
// first request for that text. The returned vector must not be
// modified.
func (s *Session) Embed(ctx context.Context, text string) (Vector, error) {
	key := s.key(text)
	if vector, ok := s.cache[key]; ok {
		s.stats.CacheHits++
		return vector, nil
	}

	s.stats.ProviderCalls++
	vector, err := s.provider.Embed(ctx, text, s.model)
	if err != nil {
		return nil, s.providerError(err)
	}
	if err := s.store(key, vector); err != nil {
		return nil, err
	}
	s.stats.TextsEmbedded++
	return s.cache[key], nil
}

// Prefetch embeds every text not yet cached. Providers implementing
// [BatchProvider] receive a single call with the distinct missing texts
// in first-seen order; others are called once per text. The cache ends
// up identical either way.
func (s *Session) Prefetch(ctx context.Context, texts []string) error {
	var missing []string
	var keys []cacheKey
	seen := make(map[cacheKey]bool)
	for _, text := range texts {
		key := s.key(text)
		if _, cached := s.cache[key]; cached || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, text)
		keys = append(keys, key)
	}
	if len(missing) == 0 {
		return nil
	}

	batcher, ok := s.provider.(BatchProvider)
	if !ok {
		for _, text := range missing {
			if _, err := s.Embed(ctx, text); err != nil {
				return err
			}
		}
		return nil
	}

	s.stats.BatchCalls++
	vectors, err := batcher.EmbedBatch(ctx, slices.Clone(missing), s.model)
	if err != nil {
		return s.providerError(err)
	}
	if len(vectors) != len(missing) {
		return &ProviderError{
			Model:   s.model,
			Message: fmt.Sprintf("batch returned %d vectors for %d texts", len(vectors), len(missing)),
		}
	}
	for i, vector := range vectors {
		if err := s.store(keys[i], vector); err != nil {
			return err
		}
	}
	s.stats.TextsEmbedded += len(missing)
	return nil
}

// Cached reports whether text already has a vector in the session.
func (s *Session) Cached(text string) bool {
	_, ok := s.cache[s.key(text)]
	return ok
}

func (s *Session) store(key cacheKey, vector Vector) error {
	if err := checkShape(s.model, vector, s.dimensions); err != nil {
		return err
	}
	if s.dimensions == 0 {
		s.dimensions = len(vector)
	}
	s.cache[key] = slices.Clone(vector)
	return nil
}

// providerError passes a *ProviderError through unchanged and wraps
// anything else in one.
func (s *Session) providerError(err error) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return err
	}
	return &ProviderError{Model: s.model, Message: "embedding call failed", Err: err}
}

// key hashes the model and text with a length prefix on the model so
// that no (model, text) pair can collide with another by shifting
// bytes across the boundary.
func (s *Session) key(text string) cacheKey {
	hasher, err := blake3.NewKeyed(cacheDomainKey[:])
	if err != nil {
		panic("embedding: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(s.model)))
	hasher.Write(length[:])
	hasher.Write([]byte(s.model))
	hasher.Write([]byte(text))
	var key cacheKey
	copy(key[:], hasher.Sum(nil))
	return key
}
