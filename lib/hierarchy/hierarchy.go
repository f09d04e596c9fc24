// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Group is one top-level routing group.
type Group struct {
	// Key is the grouping key: a domain, an action, "domain/action",
	// or empty for the flat group.
	Key string `json:"key"`

	// Label is the display label: the domain, the action,
	// "domain action", or "all tools".
	Label string `json:"label"`

	// Intent is the short description of what the group is for.
	Intent string `json:"intent"`

	// Domain and Action are the tags shared by every member, where the
	// strategy fixes them.
	Domain string `json:"domain,omitempty"`
	Action string `json:"action,omitempty"`

	// ToolIDs are the member tool ids in lexical order.
	ToolIDs []string `json:"tool_ids"`
}

// RoutingText is the text embedded as the group's representative
// vector.
func (g Group) RoutingText() string {
	return routingText(g.Label, g.Intent)
}

// Hierarchy is a two-level partition of a catalog under one strategy.
// Its groups are immutable; only the per-model routing vector cache
// fills in over its lifetime.
type Hierarchy struct {
	strategy Strategy
	catalog  *toolcatalog.Catalog
	intents  toolcatalog.Intents
	groups   []Group
	groupOf  map[string]int

	routing    map[embedding.ModelID][]embedding.Vector
	components map[embedding.ModelID]componentVectors
}

type componentVectors struct {
	domain []embedding.Vector
	action []embedding.Vector
}

// Build partitions catalog under strategy with generated intents.
func Build(catalog *toolcatalog.Catalog, strategy Strategy) (*Hierarchy, error) {
	return BuildWithIntents(catalog, strategy, toolcatalog.Intents{})
}

// BuildWithIntents partitions catalog under strategy, describing
// groups with the dataset's intents where present.
func BuildWithIntents(catalog *toolcatalog.Catalog, strategy Strategy, intents toolcatalog.Intents) (*Hierarchy, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, &toolcatalog.InvalidCatalogError{Reason: "cannot build a hierarchy from an empty catalog"}
	}
	if !slices.Contains(Strategies, strategy) {
		return nil, fmt.Errorf("hierarchy: unknown strategy %q", strategy)
	}

	byKey := make(map[string]*Group)
	for _, tool := range catalog.Tools() {
		key := strategy.Key(tool)
		group, ok := byKey[key]
		if !ok {
			group = &Group{
				Key:    key,
				Label:  strategy.label(tool),
				Intent: strategy.intent(tool, intents),
			}
			if strategy == ByDomain || strategy == ByDomainAction {
				group.Domain = tool.Domain
			}
			if strategy == ByAction || strategy == ByDomainAction {
				group.Action = tool.Action
			}
			byKey[key] = group
		}
		group.ToolIDs = append(group.ToolIDs, tool.ID)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hierarchy := &Hierarchy{
		strategy:   strategy,
		catalog:    catalog,
		intents:    intents,
		groups:     make([]Group, 0, len(keys)),
		groupOf:    make(map[string]int, catalog.Len()),
		routing:    make(map[embedding.ModelID][]embedding.Vector),
		components: make(map[embedding.ModelID]componentVectors),
	}
	for i, key := range keys {
		group := byKey[key]
		sort.Strings(group.ToolIDs)
		for _, id := range group.ToolIDs {
			hierarchy.groupOf[id] = i
		}
		hierarchy.groups = append(hierarchy.groups, *group)
	}
	return hierarchy, nil
}

// Strategy returns the grouping strategy.
func (h *Hierarchy) Strategy() Strategy {
	return h.strategy
}

// Catalog returns the partitioned catalog.
func (h *Hierarchy) Catalog() *toolcatalog.Catalog {
	return h.catalog
}

// Len returns the number of groups.
func (h *Hierarchy) Len() int {
	return len(h.groups)
}

// Groups returns the groups in key order.
func (h *Hierarchy) Groups() []Group {
	groups := make([]Group, len(h.groups))
	for i, group := range h.groups {
		groups[i] = group
		groups[i].ToolIDs = slices.Clone(group.ToolIDs)
	}
	return groups
}

// Group returns the group at index i in key order.
func (h *Hierarchy) Group(i int) Group {
	group := h.groups[i]
	group.ToolIDs = slices.Clone(group.ToolIDs)
	return group
}

// GroupOf returns the key of the group containing toolID.
func (h *Hierarchy) GroupOf(toolID string) (string, error) {
	i, ok := h.groupOf[toolID]
	if !ok {
		return "", &toolcatalog.NotFoundError{ID: toolID}
	}
	return h.groups[i].Key, nil
}

// Members returns every member id across all groups, in group order.
// Under a valid hierarchy this is a permutation of the catalog's ids.
func (h *Hierarchy) Members() []string {
	var members []string
	for _, group := range h.groups {
		members = append(members, group.ToolIDs...)
	}
	return members
}

// RoutingVectors returns one representative vector per group, aligned
// with [Hierarchy.Groups]. They are embedded through session on first
// use for session's model and reused afterwards. The returned slice is
// the caller's; the vectors in it are shared and must not be modified.
// Provider failures are returned unmodified.
func (h *Hierarchy) RoutingVectors(ctx context.Context, session *embedding.Session) ([]embedding.Vector, error) {
	if vectors, ok := h.routing[session.Model()]; ok {
		return slices.Clone(vectors), nil
	}

	texts := make([]string, len(h.groups))
	for i, group := range h.groups {
		texts[i] = group.RoutingText()
	}
	vectors, err := embedAll(ctx, session, texts)
	if err != nil {
		return nil, err
	}
	h.routing[session.Model()] = vectors
	return slices.Clone(vectors), nil
}

// ComponentRoutingVectors returns, for each group of a domain+action
// hierarchy, the routing vector of its domain alone and of its action
// alone. These are the inputs to a weighted blend of separate domain
// and action scores. Slices are copied as in [Hierarchy.RoutingVectors].
func (h *Hierarchy) ComponentRoutingVectors(ctx context.Context, session *embedding.Session) (domain, action []embedding.Vector, err error) {
	if h.strategy != ByDomainAction {
		return nil, nil, fmt.Errorf("hierarchy: component routing needs a %s hierarchy, have %s", ByDomainAction, h.strategy)
	}
	if cached, ok := h.components[session.Model()]; ok {
		return slices.Clone(cached.domain), slices.Clone(cached.action), nil
	}

	domainTexts := make([]string, len(h.groups))
	actionTexts := make([]string, len(h.groups))
	for i, group := range h.groups {
		domainTexts[i] = routingText(group.Domain, domainIntent(group.Domain, h.intents))
		actionTexts[i] = routingText(group.Action, actionIntent(group.Action, h.intents))
	}
	if domain, err = embedAll(ctx, session, domainTexts); err != nil {
		return nil, nil, err
	}
	if action, err = embedAll(ctx, session, actionTexts); err != nil {
		return nil, nil, err
	}
	h.components[session.Model()] = componentVectors{domain: domain, action: action}
	return slices.Clone(domain), slices.Clone(action), nil
}

func embedAll(ctx context.Context, session *embedding.Session, texts []string) ([]embedding.Vector, error) {
	if err := session.Prefetch(ctx, texts); err != nil {
		return nil, err
	}
	vectors := make([]embedding.Vector, len(texts))
	for i, text := range texts {
		vector, err := session.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}
