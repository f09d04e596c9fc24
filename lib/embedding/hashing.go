// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// HashingModelPrefix prefixes the model ids served by [Hashing].
const HashingModelPrefix = "hashing-"

// featureDomainKey keys the feature hash. Changing it changes every
// hashing vector.
var featureDomainKey = [32]byte{
	't', 'o', 'o', 'l', 'h', 'i', 'e', 'r', 'a', 'r', 'c', 'h', 'y', '.', 'f', 'e',
	'a', 't', 'u', 'r', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords carry no signal about which tool a request wants.
var stopWords = map[string]bool{
	"an": true, "and": true, "any": true, "for": true, "from": true,
	"in": true, "into": true, "is": true, "it": true, "me": true,
	"my": true, "of": true, "on": true, "or": true, "the": true,
	"this": true, "to": true, "with": true,
}

// Hashing is a deterministic local embedding model. Each text becomes
// a bag of word features plus character trigram features per word, and
// every feature is hashed into one signed bucket of a fixed-length
// vector, which is then L2-normalised. Texts sharing words or word
// stems therefore have positive cosine similarity; unrelated texts sit
// near zero.
type Hashing struct {
	dimensions int
}

// NewHashing returns a hashing model producing vectors of the given
// length. Panics if dimensions is not positive.
func NewHashing(dimensions int) *Hashing {
	if dimensions <= 0 {
		panic(fmt.Sprintf("embedding.NewHashing: dimensions must be positive, got %d", dimensions))
	}
	return &Hashing{dimensions: dimensions}
}

// ParseHashingModel extracts the dimension count from a model id of
// the form "hashing-<dimensions>".
func ParseHashingModel(model ModelID) (int, error) {
	suffix, ok := strings.CutPrefix(string(model), HashingModelPrefix)
	if !ok {
		return 0, fmt.Errorf("embedding: %q is not a hashing model id", model)
	}
	dimensions, err := strconv.Atoi(suffix)
	if err != nil || dimensions <= 0 {
		return 0, fmt.Errorf("embedding: %q has no positive dimension count", model)
	}
	return dimensions, nil
}

// Dimensions returns the vector length.
func (h *Hashing) Dimensions() int {
	return h.dimensions
}

// Embed returns the hashed vector for text. The model id is not
// consulted; a Hashing instance is one model.
func (h *Hashing) Embed(ctx context.Context, text string, model ModelID) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return HashVector(text, h.dimensions), nil
}

// EmbedBatch embeds each text in turn.
func (h *Hashing) EmbedBatch(ctx context.Context, texts []string, model ModelID) ([]Vector, error) {
	vectors := make([]Vector, len(texts))
	for i, text := range texts {
		vector, err := h.Embed(ctx, text, model)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// HashVector computes the feature-hashed embedding of text. A text
// with no features yields the zero vector.
func HashVector(text string, dimensions int) Vector {
	vector := make(Vector, dimensions)
	hasher, err := blake3.NewKeyed(featureDomainKey[:])
	if err != nil {
		panic("embedding: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	add := func(feature string, weight float64) {
		hasher.Reset()
		hasher.Write([]byte(feature))
		sum := binary.LittleEndian.Uint64(hasher.Sum(nil)[:8])
		bucket := int(sum % uint64(dimensions))
		if sum>>63 == 1 {
			weight = -weight
		}
		vector[bucket] += weight
	}

	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(word) < 2 || stopWords[word] {
			continue
		}
		add("w:"+word, 1)

		bounded := "^" + word + "$"
		trigramCount := len(bounded) - 2
		for i := 0; i < trigramCount; i++ {
			add("t:"+bounded[i:i+3], 1/float64(trigramCount))
		}
	}

	var norm float64
	for _, value := range vector {
		norm += value * value
	}
	if norm == 0 {
		return vector
	}
	norm = math.Sqrt(norm)
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}
