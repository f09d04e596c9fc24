// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	_ "embed"
	"fmt"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the embedded reference dataset. Each call parses a
// fresh copy, so callers may hold it independently.
func Builtin() (*Dataset, error) {
	dataset, err := Parse(builtinYAML, ".yaml")
	if err != nil {
		return nil, fmt.Errorf("builtin dataset: %w", err)
	}
	return dataset, nil
}
