// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func fileTools() []Tool {
	return []Tool{
		{ID: "file_write", Name: "Write File", Description: "writes a file to disk", Domain: "file", Action: "write"},
		{ID: "file_read", Name: "Read File", Description: "reads a file from disk", Domain: "file", Action: "read"},
		{ID: "email_send", Name: "Send Email", Description: "sends an email", Domain: "email", Action: "write"},
	}
}

func TestNewCatalogPreservesOrder(t *testing.T) {
	catalog, err := NewCatalog(fileTools())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if catalog.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", catalog.Len())
	}
	var ids []string
	for _, tool := range catalog.Tools() {
		ids = append(ids, tool.ID)
	}
	if want := []string{"file_write", "file_read", "email_send"}; !slices.Equal(ids, want) {
		t.Errorf("Tools() order = %v, want %v", ids, want)
	}
	if want := []string{"email_send", "file_read", "file_write"}; !slices.Equal(catalog.IDs(), want) {
		t.Errorf("IDs() = %v, want %v", catalog.IDs(), want)
	}
	if want := []string{"email", "file"}; !slices.Equal(catalog.Domains(), want) {
		t.Errorf("Domains() = %v, want %v", catalog.Domains(), want)
	}
	if want := []string{"read", "write"}; !slices.Equal(catalog.Actions(), want) {
		t.Errorf("Actions() = %v, want %v", catalog.Actions(), want)
	}
}

func TestCatalogIsReadOnly(t *testing.T) {
	tools := fileTools()
	catalog, err := NewCatalog(tools)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	tools[0].Description = "mutated input"
	returned := catalog.Tools()
	returned[1].Description = "mutated output"

	tool, err := catalog.Lookup("file_write")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if tool.Description != "writes a file to disk" {
		t.Errorf("catalog saw caller mutation: %q", tool.Description)
	}
	tool, _ = catalog.Lookup("file_read")
	if tool.Description != "reads a file from disk" {
		t.Errorf("catalog saw mutation of Tools() result: %q", tool.Description)
	}
}

func TestLookupNotFound(t *testing.T) {
	catalog, err := NewCatalog(fileTools())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	_, err = catalog.Lookup("file_delete")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Lookup error = %v, want *NotFoundError", err)
	}
	if notFound.ID != "file_delete" {
		t.Errorf("NotFoundError.ID = %q", notFound.ID)
	}
	if catalog.Contains("file_delete") {
		t.Error("Contains(file_delete) = true")
	}
}

func TestNewCatalogRejectsMalformedTools(t *testing.T) {
	tests := []struct {
		name  string
		tools []Tool
		want  []string
	}{
		{
			name: "empty catalog",
			want: []string{"no tools"},
		},
		{
			name: "duplicate and empty id",
			tools: []Tool{
				{ID: "a", Description: "x", Domain: "d", Action: "r"},
				{ID: "a", Description: "y", Domain: "d", Action: "r"},
				{ID: "", Description: "z", Domain: "d", Action: "r"},
			},
			want: []string{"tools[1] (a): id duplicates tools[0]", "tools[2]: id is empty"},
		},
		{
			name: "missing fields",
			tools: []Tool{
				{ID: "a", Description: "  ", Domain: "", Action: "read"},
			},
			want: []string{"description is empty", "domain is empty"},
		},
		{
			name: "reserved separator",
			tools: []Tool{
				{ID: "a", Description: "x", Domain: "file/system", Action: "read"},
			},
			want: []string{`domain "file/system" contains '/'`},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewCatalog(test.tools)
			var invalid *InvalidCatalogError
			if !errors.As(err, &invalid) {
				t.Fatalf("NewCatalog error = %v, want *InvalidCatalogError", err)
			}
			for _, fragment := range test.want {
				if !strings.Contains(invalid.Reason, fragment) {
					t.Errorf("reason %q missing %q", invalid.Reason, fragment)
				}
			}
		})
	}
}

func TestToolText(t *testing.T) {
	tool := Tool{ID: "file_read", Name: "Read File", Description: "reads a file from disk"}
	if got := tool.Text(); got != "Read File: reads a file from disk" {
		t.Errorf("Text() = %q", got)
	}
	tool.Name = ""
	if got := tool.Text(); got != "reads a file from disk" {
		t.Errorf("Text() without name = %q", got)
	}
}

func TestValidateQueries(t *testing.T) {
	catalog, err := NewCatalog(fileTools())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	if err := ValidateQueries(catalog, []TestQuery{{Query: "load a document", ExpectedTool: "file_read"}}); err != nil {
		t.Errorf("valid queries rejected: %v", err)
	}

	err = ValidateQueries(catalog, []TestQuery{
		{Query: "", ExpectedTool: "file_read"},
		{Query: "drop the table", ExpectedTool: "db_delete"},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.ID != "db_delete" {
		t.Errorf("error %v does not wrap NotFoundError for db_delete", err)
	}
	if !strings.Contains(err.Error(), "queries[0]: query text is empty") {
		t.Errorf("error %q missing empty-text problem", err)
	}
}

func TestNewDatasetRejectsUnknownIntentKeys(t *testing.T) {
	catalog, err := NewCatalog(fileTools())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	_, err = NewDataset(catalog, nil, Intents{
		Domains: map[string]string{"file": "files", "calender": "typo"},
	})
	var invalid *InvalidCatalogError
	if !errors.As(err, &invalid) || !strings.Contains(invalid.Reason, `"calender"`) {
		t.Fatalf("NewDataset error = %v, want unknown intent key", err)
	}
}
