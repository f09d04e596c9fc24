// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

// Tool is one callable tool as presented to a model.
type Tool struct {
	// ID uniquely identifies the tool within a catalog (e.g.
	// "file_read").
	ID string `yaml:"id" json:"id" toml:"id"`

	// Name is the display name (e.g. "Read File").
	Name string `yaml:"name" json:"name" toml:"name"`

	// Description is the natural-language description that gets
	// embedded and matched against queries.
	Description string `yaml:"description" json:"description" toml:"description"`

	// Domain is the subject area the tool operates on (e.g. "file",
	// "database", "email").
	Domain string `yaml:"domain" json:"domain" toml:"domain"`

	// Action is the verb the tool performs (e.g. "read", "write",
	// "delete").
	Action string `yaml:"action" json:"action" toml:"action"`
}

// Text returns the string embedded for this tool: "<name>: <description>".
// A tool without a display name embeds its description alone.
func (t Tool) Text() string {
	if t.Name == "" {
		return t.Description
	}
	return t.Name + ": " + t.Description
}

// TestQuery is a natural-language request labelled with the tool it
// should resolve to.
type TestQuery struct {
	Query        string `yaml:"query" json:"query" toml:"query"`
	ExpectedTool string `yaml:"expected_tool" json:"expected_tool" toml:"expected_tool"`
}
