// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Catalog is an immutable, validated set of tools. Tools keep the
// order they were supplied in.
type Catalog struct {
	tools []Tool
	index map[string]int
}

// NewCatalog validates tools and builds a catalog. Every problem is
// collected into a single [*InvalidCatalogError] so a hand-edited file
// can be fixed in one pass.
func NewCatalog(tools []Tool) (*Catalog, error) {
	if len(tools) == 0 {
		return nil, &InvalidCatalogError{Reason: "catalog contains no tools"}
	}

	var problems []string
	index := make(map[string]int, len(tools))
	for i, tool := range tools {
		label := fmt.Sprintf("tools[%d]", i)
		if tool.ID != "" {
			label = fmt.Sprintf("tools[%d] (%s)", i, tool.ID)
		}

		if tool.ID == "" {
			problems = append(problems, label+": id is empty")
		} else if previous, duplicate := index[tool.ID]; duplicate {
			problems = append(problems, fmt.Sprintf("%s: id duplicates tools[%d]", label, previous))
		} else {
			index[tool.ID] = i
		}
		if strings.TrimSpace(tool.Description) == "" {
			problems = append(problems, label+": description is empty")
		}
		problems = appendTagProblems(problems, label, "domain", tool.Domain)
		problems = appendTagProblems(problems, label, "action", tool.Action)
	}
	if len(problems) > 0 {
		return nil, &InvalidCatalogError{Reason: strings.Join(problems, "; ")}
	}

	return &Catalog{tools: slices.Clone(tools), index: index}, nil
}

// appendTagProblems checks a grouping tag. "/" is reserved as the
// separator of composite domain/action group keys.
func appendTagProblems(problems []string, label, field, value string) []string {
	switch {
	case strings.TrimSpace(value) == "":
		return append(problems, fmt.Sprintf("%s: %s is empty", label, field))
	case strings.Contains(value, "/"):
		return append(problems, fmt.Sprintf("%s: %s %q contains '/'", label, field, value))
	}
	return problems
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Tools returns a copy of the tools in catalog order.
func (c *Catalog) Tools() []Tool {
	return slices.Clone(c.tools)
}

// Lookup returns the tool with the given id.
func (c *Catalog) Lookup(id string) (Tool, error) {
	i, ok := c.index[id]
	if !ok {
		return Tool{}, &NotFoundError{ID: id}
	}
	return c.tools[i], nil
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// IDs returns every tool id in lexical order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.tools))
	for _, tool := range c.tools {
		ids = append(ids, tool.ID)
	}
	sort.Strings(ids)
	return ids
}

// Domains returns the distinct domains in lexical order.
func (c *Catalog) Domains() []string {
	return c.distinct(func(t Tool) string { return t.Domain })
}

// Actions returns the distinct actions in lexical order.
func (c *Catalog) Actions() []string {
	return c.distinct(func(t Tool) string { return t.Action })
}

func (c *Catalog) distinct(field func(Tool) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, tool := range c.tools {
		value := field(tool)
		if !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}
