// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/toolhierarchy/lib/testutil"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Dataset != "" {
		t.Errorf("expected builtin dataset, got %q", cfg.Dataset)
	}
	if len(cfg.Models) != 1 || cfg.Models[0].Name != "hashing-256" {
		t.Errorf("expected single hashing-256 model, got %+v", cfg.Models)
	}

	var names []string
	for _, strategy := range cfg.Strategies {
		names = append(names, strategy.StrategyName())
	}
	if got := strings.Join(names, ","); got != "flat,domain,action,hybrid" {
		t.Errorf("default strategies = %s", got)
	}
}

func TestLoad_RequiresEnvVar(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when TOOLHIERARCHY_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), EnvVar+" environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithEnvVar(t *testing.T) {
	path := testutil.WriteFile(t, "run.yaml", `
dataset: /data/catalog.yaml
log_level: debug
`)
	t.Setenv(EnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Dataset != "/data/catalog.yaml" {
		t.Errorf("expected dataset=/data/catalog.yaml, got %s", cfg.Dataset)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level=debug, got %s", cfg.LogLevel)
	}
	// Omitted sections keep their defaults.
	if len(cfg.Strategies) != 4 {
		t.Errorf("expected default strategies to survive, got %d", len(cfg.Strategies))
	}
}

func TestLoadFile_ModelsOnly(t *testing.T) {
	path := testutil.WriteFile(t, "run.yaml", `
models:
  - name: text-embedding-3-small
    provider: openai
    endpoint: https://api.openai.com/v1
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("a config that only replaces models should validate: %v", err)
	}
	if cfg.Scale.Model != "" || cfg.Scale.Strategy != "" {
		t.Errorf("scale target = %q/%q, want both empty", cfg.Scale.Strategy, cfg.Scale.Model)
	}
}

func TestLoadFile_StrategiesOnly(t *testing.T) {
	path := testutil.WriteFile(t, "run.yaml", `
strategies:
  - grouping: action
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("a config that only replaces strategies should validate: %v", err)
	}
}

func TestLoadFile_ListsReplaceDefaults(t *testing.T) {
	path := testutil.WriteFile(t, "run.yaml", `
models:
  - name: text-embedding-3-small
    provider: openai
    endpoint: https://api.openai.com/v1
    api_key_env: OPENAI_API_KEY
  - name: hashing-64
    provider: hashing
    dimensions: 64
strategies:
  - grouping: domain
  - name: blend
    grouping: hybrid
    method: weighted
    domain_weight: 0.7
scale:
  tool_counts: [10, 20]
  strategy: blend
  model: hashing-64
output:
  format: markdown
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(cfg.Models) != 2 || cfg.Models[0].Provider != ProviderOpenAI {
		t.Errorf("models = %+v", cfg.Models)
	}
	if len(cfg.Strategies) != 2 {
		t.Fatalf("expected 2 strategies, got %d", len(cfg.Strategies))
	}
	if cfg.Strategies[0].StrategyName() != "domain" || cfg.Strategies[0].MethodName() != "embedding" {
		t.Errorf("first strategy = %+v", cfg.Strategies[0])
	}
	blend, ok := cfg.Strategy("blend")
	if !ok || blend.DomainWeight == nil || *blend.DomainWeight != 0.7 {
		t.Errorf("blend strategy = %+v", blend)
	}
	if _, ok := cfg.Model("hashing-64"); !ok {
		t.Error("Model(hashing-64) not found")
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	path := testutil.WriteFile(t, "run.yaml", `
stratgies:
  - grouping: domain
`)
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for misspelled section, got nil")
	}
}

func TestLoadFile_EmptyFileKeepsDefaults(t *testing.T) {
	path := testutil.WriteFile(t, "run.yaml", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("TOOLHIERARCHY_TEST_DATA", "/srv/datasets")
	t.Setenv("TOOLHIERARCHY_TEST_UNSET", "")

	path := testutil.WriteFile(t, "run.yaml", `
dataset: ${TOOLHIERARCHY_TEST_DATA}/tools.toml
output:
  archive: ${TOOLHIERARCHY_TEST_UNSET:-/tmp/reports}/run.cbor.zst
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Dataset != "/srv/datasets/tools.toml" {
		t.Errorf("dataset = %s", cfg.Dataset)
	}
	if cfg.Output.Archive != "/tmp/reports/run.cbor.zst" {
		t.Errorf("archive = %s", cfg.Output.Archive)
	}
}

func TestValidate(t *testing.T) {
	weight := func(w float64) *float64 { return &w }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no models",
			mutate:  func(c *Config) { c.Models = nil },
			wantErr: "at least one model",
		},
		{
			name: "duplicate model",
			mutate: func(c *Config) {
				c.Models = append(c.Models, c.Models[0])
			},
			wantErr: "duplicated",
		},
		{
			name:    "hashing without dimensions",
			mutate:  func(c *Config) { c.Models[0].Dimensions = 0 },
			wantErr: "dimensions must be positive",
		},
		{
			name: "openai without endpoint",
			mutate: func(c *Config) {
				c.Models = append(c.Models, ModelConfig{Name: "remote", Provider: ProviderOpenAI})
			},
			wantErr: "endpoint is required",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Models[0].Provider = "onnx" },
			wantErr: "provider must be one of",
		},
		{
			name:    "unknown grouping",
			mutate:  func(c *Config) { c.Strategies[0].Grouping = "verb" },
			wantErr: "grouping must be one of",
		},
		{
			name: "weighted without weight",
			mutate: func(c *Config) {
				c.Strategies[3].Method = "weighted"
			},
			wantErr: "domain_weight is required",
		},
		{
			name: "weighted out of range",
			mutate: func(c *Config) {
				c.Strategies[3].Method = "weighted"
				c.Strategies[3].DomainWeight = weight(1.5)
			},
			wantErr: "must be in [0, 1]",
		},
		{
			name: "weighted on domain grouping",
			mutate: func(c *Config) {
				c.Strategies[1].Method = "weighted"
				c.Strategies[1].DomainWeight = weight(0.5)
			},
			wantErr: "requires the domain+action grouping",
		},
		{
			name:    "weight on embedding method",
			mutate:  func(c *Config) { c.Strategies[0].DomainWeight = weight(0.5) },
			wantErr: "only meaningful for the weighted method",
		},
		{
			name:    "non-positive tool count",
			mutate:  func(c *Config) { c.Scale.ToolCounts = []int{10, 0} },
			wantErr: "tool_counts[1] must be positive",
		},
		{
			name:    "scale strategy unknown",
			mutate:  func(c *Config) { c.Scale.Strategy = "nope" },
			wantErr: "does not name a configured strategy",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Output.Format = "pdf" },
			wantErr: "output.format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "log_level",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), test.wantErr)
			}
		})
	}
}
