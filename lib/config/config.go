// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted by [Load].
const EnvVar = "TOOLHIERARCHY_CONFIG"

// Provider names accepted in models[].provider.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)

// Output formats accepted in output.format.
var Formats = []string{"text", "table", "markdown", "html", "json"}

var (
	groupings = []string{"flat", "domain", "action", "domain+action", "hybrid"}
	methods   = []string{"embedding", "weighted", "lexical"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config is the master configuration for an evaluation run.
type Config struct {
	// Dataset is the path to a catalog file (YAML, JSON, JSONC, or
	// TOML). Empty selects the builtin dataset.
	Dataset string `yaml:"dataset"`

	// Queries optionally names a separate query file evaluated against
	// the dataset's catalog. When empty, the dataset's own queries are
	// used.
	Queries string `yaml:"queries"`

	// Models lists the embedding models to compare, in output order.
	Models []ModelConfig `yaml:"models"`

	// Strategies lists the hierarchy strategies to run, in output order.
	Strategies []StrategyConfig `yaml:"strategies"`

	// Scale configures the scaling sweep.
	Scale ScaleConfig `yaml:"scale"`

	// Output configures rendering and saved artifacts.
	Output OutputConfig `yaml:"output"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// ModelConfig describes one embedding model.
type ModelConfig struct {
	// Name is the model identifier used as the cache key and the
	// report row key, e.g. "hashing-256" or "text-embedding-3-small".
	Name string `yaml:"name"`

	// Provider selects the implementation: "hashing" or "openai".
	Provider string `yaml:"provider"`

	// Dimensions is the vector length for the hashing provider. The
	// openai provider learns its dimensionality from the first reply.
	Dimensions int `yaml:"dimensions"`

	// Endpoint is the base URL of an OpenAI-compatible API, e.g.
	// https://api.openai.com/v1. Required for the openai provider.
	Endpoint string `yaml:"endpoint"`

	// APIKeyEnv names the environment variable holding the API key.
	// Empty means the endpoint requires no authentication.
	APIKeyEnv string `yaml:"api_key_env"`
}

// StrategyConfig describes one hierarchy strategy.
type StrategyConfig struct {
	// Name labels report rows. Defaults to Grouping when empty.
	Name string `yaml:"name"`

	// Grouping is flat, domain, action, or domain+action ("hybrid" is
	// accepted as an alias).
	Grouping string `yaml:"grouping"`

	// Method is embedding (default), weighted, or lexical.
	Method string `yaml:"method"`

	// DomainWeight is the blend weight of the weighted method. It must
	// be set explicitly for that method and lie in [0, 1].
	DomainWeight *float64 `yaml:"domain_weight"`
}

// ScaleConfig configures the scaling sweep.
type ScaleConfig struct {
	// ToolCounts are the catalog sizes to synthesize, in output order.
	ToolCounts []int `yaml:"tool_counts"`

	// Strategy names an entry of Strategies. Empty selects the first
	// configured strategy.
	Strategy string `yaml:"strategy"`

	// Model names an entry of Models. Empty selects the first
	// configured model.
	Model string `yaml:"model"`
}

// OutputConfig configures rendering and saved artifacts.
type OutputConfig struct {
	// Format is the comparison renderer: text, table, markdown, html,
	// or json.
	Format string `yaml:"format"`

	// Archive, when set, is where compare and scale save their reports.
	// The extension selects the encoding (.json, .cbor, optionally
	// followed by .zst or .lz4).
	Archive string `yaml:"archive"`

	// MetricsFile, when set, receives a Prometheus textfile export of
	// the run's metrics.
	MetricsFile string `yaml:"metrics_file"`
}

// StrategyName returns the row label for s.
func (s StrategyConfig) StrategyName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Grouping
}

// MethodName returns the matching method, defaulting to embedding.
func (s StrategyConfig) MethodName() string {
	if s.Method == "" {
		return "embedding"
	}
	return s.Method
}

// Default returns a configuration that evaluates the builtin dataset
// with the local hashing model under the four standard strategies.
func Default() *Config {
	return &Config{
		Models: []ModelConfig{
			{Name: "hashing-256", Provider: ProviderHashing, Dimensions: 256},
		},
		Strategies: []StrategyConfig{
			{Name: "flat", Grouping: "flat"},
			{Name: "domain", Grouping: "domain"},
			{Name: "action", Grouping: "action"},
			{Name: "hybrid", Grouping: "domain+action"},
		},
		Scale: ScaleConfig{
			ToolCounts: []int{15, 30, 60, 120},
		},
		Output: OutputConfig{
			Format: "text",
		},
		LogLevel: "info",
	}
}

// Load loads configuration from the TOOLHIERARCHY_CONFIG environment
// variable. It fails when the variable is unset; callers that want the
// builtin defaults call [Default] explicitly.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a run config file, or use --config flag", EnvVar)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Sections the
// file omits keep their [Default] values; lists present in the file
// replace the default lists entirely.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths
// and endpoints.
func (c *Config) expandVariables() {
	c.Dataset = expandVars(c.Dataset)
	c.Queries = expandVars(c.Queries)
	c.Output.Archive = expandVars(c.Output.Archive)
	c.Output.MetricsFile = expandVars(c.Output.MetricsFile)
	for i := range c.Models {
		c.Models[i].Endpoint = expandVars(c.Models[i].Endpoint)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Model returns the model configuration with the given name.
func (c *Config) Model(name string) (ModelConfig, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelConfig{}, false
}

// Strategy returns the strategy configuration with the given row name.
func (c *Config) Strategy(name string) (StrategyConfig, bool) {
	for _, strategy := range c.Strategies {
		if strategy.StrategyName() == name {
			return strategy, true
		}
	}
	return StrategyConfig{}, false
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Models) == 0 {
		errs = append(errs, fmt.Errorf("models: at least one model is required"))
	}
	seenModels := make(map[string]bool, len(c.Models))
	for i, model := range c.Models {
		prefix := fmt.Sprintf("models[%d]", i)
		if model.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seenModels[model.Name] {
			errs = append(errs, fmt.Errorf("%s.name %q is duplicated", prefix, model.Name))
		}
		seenModels[model.Name] = true

		switch model.Provider {
		case ProviderHashing:
			if model.Dimensions <= 0 {
				errs = append(errs, fmt.Errorf("%s.dimensions must be positive for the hashing provider", prefix))
			}
		case ProviderOpenAI:
			if model.Endpoint == "" {
				errs = append(errs, fmt.Errorf("%s.endpoint is required for the openai provider", prefix))
			}
		default:
			errs = append(errs, fmt.Errorf("%s.provider must be one of: %v", prefix, []string{ProviderHashing, ProviderOpenAI}))
		}
	}

	if len(c.Strategies) == 0 {
		errs = append(errs, fmt.Errorf("strategies: at least one strategy is required"))
	}
	seenStrategies := make(map[string]bool, len(c.Strategies))
	for i, strategy := range c.Strategies {
		prefix := fmt.Sprintf("strategies[%d]", i)
		name := strategy.StrategyName()
		if name == "" {
			errs = append(errs, fmt.Errorf("%s: name or grouping is required", prefix))
		} else if seenStrategies[name] {
			errs = append(errs, fmt.Errorf("%s.name %q is duplicated", prefix, name))
		}
		seenStrategies[name] = true

		if !slices.Contains(groupings, strategy.Grouping) {
			errs = append(errs, fmt.Errorf("%s.grouping must be one of: %v", prefix, groupings))
		}
		method := strategy.MethodName()
		if !slices.Contains(methods, method) {
			errs = append(errs, fmt.Errorf("%s.method must be one of: %v", prefix, methods))
		}
		if method == "weighted" {
			if strategy.Grouping != "domain+action" && strategy.Grouping != "hybrid" {
				errs = append(errs, fmt.Errorf("%s: the weighted method requires the domain+action grouping", prefix))
			}
			if strategy.DomainWeight == nil {
				errs = append(errs, fmt.Errorf("%s.domain_weight is required for the weighted method", prefix))
			} else if w := *strategy.DomainWeight; math.IsNaN(w) || w < 0 || w > 1 {
				errs = append(errs, fmt.Errorf("%s.domain_weight must be in [0, 1], got %v", prefix, w))
			}
		} else if strategy.DomainWeight != nil {
			errs = append(errs, fmt.Errorf("%s.domain_weight is only meaningful for the weighted method", prefix))
		}
	}

	for i, count := range c.Scale.ToolCounts {
		if count <= 0 {
			errs = append(errs, fmt.Errorf("scale.tool_counts[%d] must be positive, got %d", i, count))
		}
	}
	if c.Scale.Strategy != "" && !seenStrategies[c.Scale.Strategy] {
		errs = append(errs, fmt.Errorf("scale.strategy %q does not name a configured strategy", c.Scale.Strategy))
	}
	if c.Scale.Model != "" && !seenModels[c.Scale.Model] {
		errs = append(errs, fmt.Errorf("scale.model %q does not name a configured model", c.Scale.Model))
	}

	if !slices.Contains(Formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", Formats))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
