// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Dataset is a catalog together with its labelled queries and the
// optional intent descriptions used to build group routing text.
type Dataset struct {
	Catalog *Catalog
	Queries []TestQuery
	Intents Intents
}

// Intents holds short descriptions of what each group is for. Keys are
// domain and action names. Missing entries fall back to generated
// descriptions in the hierarchy builder.
type Intents struct {
	Domains map[string]string `yaml:"domains" json:"domains" toml:"domains"`
	Actions map[string]string `yaml:"actions" json:"actions" toml:"actions"`
}

// NewDataset validates queries and intents against catalog.
func NewDataset(catalog *Catalog, queries []TestQuery, intents Intents) (*Dataset, error) {
	if err := ValidateQueries(catalog, queries); err != nil {
		return nil, err
	}
	if err := validateIntents(catalog, intents); err != nil {
		return nil, err
	}
	return &Dataset{Catalog: catalog, Queries: queries, Intents: intents}, nil
}

// ValidateQueries checks that every query has text and names a tool in
// the catalog. Unknown tools are reported as [*NotFoundError] wrapped
// with the query's position; all problems are joined.
func ValidateQueries(catalog *Catalog, queries []TestQuery) error {
	var errs []error
	for i, query := range queries {
		if strings.TrimSpace(query.Query) == "" {
			errs = append(errs, fmt.Errorf("queries[%d]: query text is empty", i))
		}
		if query.ExpectedTool == "" {
			errs = append(errs, fmt.Errorf("queries[%d]: expected_tool is empty", i))
			continue
		}
		if _, err := catalog.Lookup(query.ExpectedTool); err != nil {
			errs = append(errs, fmt.Errorf("queries[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// validateIntents rejects intent keys that name no domain or action in
// the catalog, which is almost always a typo in a hand-edited file.
func validateIntents(catalog *Catalog, intents Intents) error {
	var problems []string
	problems = appendUnknownKeys(problems, "intents.domains", intents.Domains, catalog.Domains())
	problems = appendUnknownKeys(problems, "intents.actions", intents.Actions, catalog.Actions())
	if len(problems) > 0 {
		return &InvalidCatalogError{Reason: strings.Join(problems, "; ")}
	}
	return nil
}

func appendUnknownKeys(problems []string, section string, entries map[string]string, known []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, value := range known {
		knownSet[value] = true
	}
	var unknown []string
	for key := range entries {
		if !knownSet[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		problems = append(problems, fmt.Sprintf("%s: %q is not used by any tool", section, key))
	}
	return problems
}
