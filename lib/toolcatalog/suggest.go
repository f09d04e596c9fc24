// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initFuzzyScheme sync.Once

// SuggestIDs returns up to limit catalog ids that fuzzy-match
// unknown, best first. Matching is case-insensitive and follows fzf's
// scoring: every character of unknown must appear in order in the id,
// and matches on word boundaries ("_", start of id) score higher. Ties
// are broken by id. A limit of zero or less returns every match.
func SuggestIDs(catalog *Catalog, unknown string, limit int) []string {
	pattern := []rune(strings.ToLower(strings.TrimSpace(unknown)))
	if len(pattern) == 0 {
		return nil
	}
	initFuzzyScheme.Do(func() { algo.Init("default") })

	type candidate struct {
		id    string
		score int
	}
	var candidates []candidate
	slab := util.MakeSlab(100*1024, 2048)
	for _, id := range catalog.IDs() {
		chars := util.ToChars([]byte(id))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
		if result.Start < 0 || result.Score <= 0 {
			continue
		}
		candidates = append(candidates, candidate{id: id, score: result.Score})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	suggestions := make([]string, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.id
	}
	return suggestions
}
