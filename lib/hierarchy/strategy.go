// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"fmt"

	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Strategy is a grouping key.
type Strategy string

const (
	// Flat is the degenerate single-group hierarchy: the baseline with
	// no routing stage.
	Flat Strategy = "flat"

	// ByDomain groups tools by subject area.
	ByDomain Strategy = "domain"

	// ByAction groups tools by verb.
	ByAction Strategy = "action"

	// ByDomainAction groups tools by the composite domain/action key.
	ByDomainAction Strategy = "domain+action"
)

// Strategies lists every strategy in canonical order.
var Strategies = []Strategy{Flat, ByDomain, ByAction, ByDomainAction}

// ParseStrategy parses a strategy name. "hybrid" is accepted as an
// alias of domain+action.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case string(Flat), string(ByDomain), string(ByAction), string(ByDomainAction):
		return Strategy(name), nil
	case "hybrid":
		return ByDomainAction, nil
	}
	return "", fmt.Errorf("hierarchy: unknown strategy %q (want flat, domain, action, or domain+action)", name)
}

// flatKey is the key of the single flat group.
const flatKey = ""

// Key returns the group key of tool under s.
func (s Strategy) Key(tool toolcatalog.Tool) string {
	switch s {
	case ByDomain:
		return tool.Domain
	case ByAction:
		return tool.Action
	case ByDomainAction:
		return tool.Domain + "/" + tool.Action
	}
	return flatKey
}

// label returns the display label of a group whose members share
// tool's tags.
func (s Strategy) label(tool toolcatalog.Tool) string {
	switch s {
	case ByDomain:
		return tool.Domain
	case ByAction:
		return tool.Action
	case ByDomainAction:
		return tool.Domain + " " + tool.Action
	}
	return "all tools"
}

// intent returns the intent description of a group whose members share
// tool's tags.
func (s Strategy) intent(tool toolcatalog.Tool, intents toolcatalog.Intents) string {
	switch s {
	case ByDomain:
		return domainIntent(tool.Domain, intents)
	case ByAction:
		return actionIntent(tool.Action, intents)
	case ByDomainAction:
		return domainIntent(tool.Domain, intents) + "; " + actionIntent(tool.Action, intents)
	}
	return "every tool in the catalog"
}

func domainIntent(domain string, intents toolcatalog.Intents) string {
	if intent := intents.Domains[domain]; intent != "" {
		return intent
	}
	return "tools that work with " + domain + " resources"
}

func actionIntent(action string, intents toolcatalog.Intents) string {
	if intent := intents.Actions[action]; intent != "" {
		return intent
	}
	return "tools that " + action + " data"
}

// routingText is the text embedded as a group's representative vector.
func routingText(label, intent string) string {
	return label + " operations: " + intent
}
