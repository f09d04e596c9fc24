// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"slices"
	"testing"
)

func TestSuggestIDs(t *testing.T) {
	dataset, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}

	suggestions := SuggestIDs(dataset.Catalog, "fileread", 3)
	if len(suggestions) == 0 || suggestions[0] != "file_read" {
		t.Errorf("SuggestIDs(fileread) = %v, want file_read first", suggestions)
	}

	reads := SuggestIDs(dataset.Catalog, "READ", 0)
	for _, want := range []string{"calendar_read", "email_read", "file_read"} {
		if !slices.Contains(reads, want) {
			t.Errorf("SuggestIDs(READ) = %v, missing %s", reads, want)
		}
	}

	if got := SuggestIDs(dataset.Catalog, "zzz", 3); len(got) != 0 {
		t.Errorf("SuggestIDs(zzz) = %v, want none", got)
	}
	if got := SuggestIDs(dataset.Catalog, "  ", 3); got != nil {
		t.Errorf("SuggestIDs(blank) = %v, want nil", got)
	}
	if got := SuggestIDs(dataset.Catalog, "e", 2); len(got) != 2 {
		t.Errorf("limit not applied: %v", got)
	}
}
