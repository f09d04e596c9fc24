// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"fmt"
	"sort"
)

// variantQualifiers rotate through synthesized tool descriptions so
// variants of one tool are not textually identical to each other.
var variantQualifiers = []string{
	"legacy",
	"batched",
	"sandboxed",
	"remote",
	"cached",
	"audited",
	"experimental",
}

// Synthesizer resizes a base dataset to an arbitrary tool count for
// scaling experiments.
//
// Counts at or below the base size keep the first N base tools in id
// order and only the queries whose expected tool survives. Counts above
// the base size keep every base tool and query and add variant tools
// as distractors: for k = 1, 2, ... each base tool (in id order) gets
// a copy "<id>_v<k>" with the same domain and action and a qualified
// description, until the count is reached. Queries keep pointing at
// the original tools, so added variants can only cost accuracy.
type Synthesizer struct {
	Base *Dataset
}

// Generate returns a dataset with exactly toolCount tools.
func (s Synthesizer) Generate(toolCount int) (*Dataset, error) {
	if s.Base == nil || s.Base.Catalog == nil {
		return nil, &InvalidCatalogError{Reason: "synthesizer has no base dataset"}
	}
	if toolCount < 1 {
		return nil, &InvalidCatalogError{Reason: fmt.Sprintf("tool count must be positive, got %d", toolCount)}
	}

	base := s.Base.Catalog.Tools()
	sort.Slice(base, func(a, b int) bool { return base[a].ID < base[b].ID })

	var tools []Tool
	var queries []TestQuery
	if toolCount <= len(base) {
		tools = base[:toolCount]
		kept := make(map[string]bool, toolCount)
		for _, tool := range tools {
			kept[tool.ID] = true
		}
		for _, query := range s.Base.Queries {
			if kept[query.ExpectedTool] {
				queries = append(queries, query)
			}
		}
	} else {
		tools = make([]Tool, 0, toolCount)
		tools = append(tools, base...)
		for k := 1; len(tools) < toolCount; k++ {
			for i, original := range base {
				if len(tools) == toolCount {
					break
				}
				tools = append(tools, variant(original, k, i))
			}
		}
		queries = append(queries, s.Base.Queries...)
	}

	catalog, err := NewCatalog(tools)
	if err != nil {
		return nil, fmt.Errorf("synthesizing %d tools: %w", toolCount, err)
	}
	return &Dataset{Catalog: catalog, Queries: queries, Intents: s.Base.Intents}, nil
}

func variant(original Tool, k, position int) Tool {
	qualifier := variantQualifiers[(k-1+position)%len(variantQualifiers)]
	name := original.Name
	if name == "" {
		name = original.ID
	}
	return Tool{
		ID:          fmt.Sprintf("%s_v%d", original.ID, k),
		Name:        fmt.Sprintf("%s (variant %d)", name, k),
		Description: fmt.Sprintf("%s (%s variant)", original.Description, qualifier),
		Domain:      original.Domain,
		Action:      original.Action,
	}
}
