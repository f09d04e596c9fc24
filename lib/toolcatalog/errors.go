// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import "fmt"

// NotFoundError is returned when a tool id is not in the catalog.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("toolcatalog: tool %q not found", e.ID)
}

// InvalidCatalogError is returned when a catalog is empty or one of its
// records is malformed. Reason lists every problem found, separated by
// "; ".
type InvalidCatalogError struct {
	Reason string
}

func (e *InvalidCatalogError) Error() string {
	return "toolcatalog: invalid catalog: " + e.Reason
}
