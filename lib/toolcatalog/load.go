// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package toolcatalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// datasetFile is the on-disk shape of a dataset. Query files use the
// same shape with only the queries section populated.
type datasetFile struct {
	Tools   []Tool      `yaml:"tools" json:"tools" toml:"tools"`
	Queries []TestQuery `yaml:"queries" json:"queries" toml:"queries"`
	Intents Intents     `yaml:"intents" json:"intents" toml:"intents"`
}

// LoadFile reads and validates a dataset. The format is chosen by
// extension: .yaml/.yml, .json/.jsonc, or .toml.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toolcatalog: reading dataset: %w", err)
	}
	dataset, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dataset, nil
}

// Parse decodes and validates a dataset in the format named by ext
// (".yaml", ".yml", ".json", ".jsonc", or ".toml").
func Parse(data []byte, ext string) (*Dataset, error) {
	var file datasetFile
	if err := decode(data, ext, &file); err != nil {
		return nil, err
	}
	catalog, err := NewCatalog(file.Tools)
	if err != nil {
		return nil, err
	}
	return NewDataset(catalog, file.Queries, file.Intents)
}

// LoadQueriesFile reads a query set kept separately from its catalog
// and validates it against catalog. The file has the same layout as a
// dataset with only the queries section present.
func LoadQueriesFile(path string, catalog *Catalog) ([]TestQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toolcatalog: reading queries: %w", err)
	}
	var file datasetFile
	if err := decode(data, filepath.Ext(path), &file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(file.Tools) > 0 {
		return nil, fmt.Errorf("%s: query file must not define tools", path)
	}
	if err := ValidateQueries(catalog, file.Queries); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file.Queries, nil
}

func decode(data []byte, ext string, file *datasetFile) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(file); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("toolcatalog: parsing YAML: %w", err)
		}
	case ".json", ".jsonc":
		// jsonc.ToJSON strips comments and trailing commas and is a
		// no-op on plain JSON.
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(file); err != nil {
			return fmt.Errorf("toolcatalog: parsing JSON: %w", err)
		}
	case ".toml":
		metadata, err := toml.Decode(string(data), file)
		if err != nil {
			return fmt.Errorf("toolcatalog: parsing TOML: %w", err)
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("toolcatalog: parsing TOML: unknown key %q", undecoded[0].String())
		}
	default:
		return fmt.Errorf("toolcatalog: unsupported dataset format %q (want .yaml, .yml, .json, .jsonc, or .toml)", ext)
	}
	return nil
}
