// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package setup

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/lib/clock"
	"github.com/bureau-foundation/toolhierarchy/lib/config"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
	"github.com/bureau-foundation/toolhierarchy/lib/hierarchy"
	"github.com/bureau-foundation/toolhierarchy/lib/matcher"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Environment is a loaded configuration with its dataset and provider.
type Environment struct {
	Config   *config.Config
	Dataset  *toolcatalog.Dataset
	Provider *embedding.Mux

	// Clock times each match. Load sets the real clock.
	Clock clock.Clock
}

// Load reads the configuration named by globals, loads its dataset,
// and registers every configured model. A nil httpClient serves
// remote models with [http.DefaultClient].
func Load(globals *cli.Globals, httpClient *http.Client) (*Environment, error) {
	cfg, err := globals.Config()
	if err != nil {
		return nil, err
	}
	dataset, err := LoadDataset(cfg)
	if err != nil {
		return nil, err
	}
	return &Environment{
		Config:   cfg,
		Dataset:  dataset,
		Provider: NewProvider(cfg.Models, httpClient),
		Clock:    clock.Real(),
	}, nil
}

// LoadDataset returns the builtin dataset or the configured file,
// with its queries replaced by the configured query file if any.
func LoadDataset(cfg *config.Config) (*toolcatalog.Dataset, error) {
	var dataset *toolcatalog.Dataset
	var err error
	if cfg.Dataset == "" {
		dataset, err = toolcatalog.Builtin()
	} else {
		dataset, err = toolcatalog.LoadFile(cfg.Dataset)
	}
	if err != nil {
		return nil, loadError("loading dataset", err)
	}

	if cfg.Queries != "" {
		queries, err := toolcatalog.LoadQueriesFile(cfg.Queries, dataset.Catalog)
		if err != nil {
			return nil, loadError("loading queries", err)
		}
		dataset = &toolcatalog.Dataset{
			Catalog: dataset.Catalog,
			Queries: queries,
			Intents: dataset.Intents,
		}
	}
	return dataset, nil
}

// loadError categorises a dataset or query file failure: a missing
// file or an unknown expected tool is not_found, anything else is bad
// input.
func loadError(action string, err error) error {
	var notFound *toolcatalog.NotFoundError
	if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
		return cli.NotFound("%s: %w", action, err)
	}
	return cli.Validation("%s: %w", action, err)
}

// NewProvider registers each model with its configured provider.
// Models are assumed validated by [config.Config.Validate].
func NewProvider(models []config.ModelConfig, httpClient *http.Client) *embedding.Mux {
	mux := embedding.NewMux()
	for _, model := range models {
		id := embedding.ModelID(model.Name)
		switch model.Provider {
		case config.ProviderHashing:
			mux.Register(id, embedding.NewHashing(model.Dimensions))
		case config.ProviderOpenAI:
			var apiKey string
			if model.APIKeyEnv != "" {
				apiKey = os.Getenv(model.APIKeyEnv)
			}
			mux.Register(id, embedding.NewOpenAI(httpClient, model.Endpoint, apiKey))
		}
	}
	return mux
}

// Evaluator returns an evaluator over the environment's provider.
// metrics may be nil.
func (env *Environment) Evaluator(logger *slog.Logger, metrics *evaluation.Metrics) *evaluation.Evaluator {
	return &evaluation.Evaluator{
		Provider: env.Provider,
		Clock:    env.Clock,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Generator returns the synthesizer used for scale sweeps.
func (env *Environment) Generator() evaluation.Generator {
	return toolcatalog.Synthesizer{Base: env.Dataset}
}

// Strategies resolves strategy names. An empty list selects every
// configured strategy in configuration order.
func (env *Environment) Strategies(names []string) ([]evaluation.Strategy, error) {
	if len(names) == 0 {
		strategies := make([]evaluation.Strategy, 0, len(env.Config.Strategies))
		for _, strategyConfig := range env.Config.Strategies {
			strategy, err := Strategy(strategyConfig)
			if err != nil {
				return nil, err
			}
			strategies = append(strategies, strategy)
		}
		return strategies, nil
	}

	strategies := make([]evaluation.Strategy, 0, len(names))
	for _, name := range names {
		strategy, err := env.Strategy(name)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strategy)
	}
	return strategies, nil
}

// Strategy resolves one strategy name: a configured strategy first,
// then a bare grouping matched by embedding.
func (env *Environment) Strategy(name string) (evaluation.Strategy, error) {
	if strategyConfig, ok := env.Config.Strategy(name); ok {
		return Strategy(strategyConfig)
	}
	if grouping, err := hierarchy.ParseStrategy(name); err == nil {
		return evaluation.Strategy{Name: name, Grouping: grouping}, nil
	}

	configured := make([]string, 0, len(env.Config.Strategies))
	for _, strategyConfig := range env.Config.Strategies {
		configured = append(configured, strategyConfig.StrategyName())
	}
	return evaluation.Strategy{}, cli.NotFound("unknown strategy %q", name).
		WithHint("Configured strategies: " + strings.Join(configured, ", ") +
			"\nAny grouping also works: flat, domain, action, domain+action.")
}

// Strategy converts a validated strategy configuration.
func Strategy(strategyConfig config.StrategyConfig) (evaluation.Strategy, error) {
	grouping, err := hierarchy.ParseStrategy(strategyConfig.Grouping)
	if err != nil {
		return evaluation.Strategy{}, cli.Validation("strategy %q: %w", strategyConfig.StrategyName(), err)
	}
	strategy := evaluation.Strategy{
		Name:     strategyConfig.StrategyName(),
		Grouping: grouping,
		Method:   strategyConfig.MethodName(),
	}
	if strategyConfig.DomainWeight != nil {
		strategy.DomainWeight = *strategyConfig.DomainWeight
	}
	return strategy, nil
}

// Models resolves model names. An empty list selects every configured
// model in configuration order. Unconfigured "hashing-<dimensions>"
// ids are registered on the fly.
func (env *Environment) Models(names []string) ([]embedding.ModelID, error) {
	if len(names) == 0 {
		models := make([]embedding.ModelID, 0, len(env.Config.Models))
		for _, model := range env.Config.Models {
			models = append(models, embedding.ModelID(model.Name))
		}
		return models, nil
	}

	models := make([]embedding.ModelID, 0, len(names))
	for _, name := range names {
		model, err := env.Model(name)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, nil
}

// Model resolves one model name.
func (env *Environment) Model(name string) (embedding.ModelID, error) {
	id := embedding.ModelID(name)
	if _, ok := env.Config.Model(name); ok {
		return id, nil
	}
	if dimensions, err := embedding.ParseHashingModel(id); err == nil {
		env.Provider.Register(id, embedding.NewHashing(dimensions))
		return id, nil
	}

	configured := make([]string, 0, len(env.Config.Models))
	for _, model := range env.Config.Models {
		configured = append(configured, model.Name)
	}
	return "", cli.NotFound("unknown model %q", name).
		WithHint("Configured models: " + strings.Join(configured, ", ") +
			"\nLocal hashing models are always available as hashing-<dimensions>.")
}

// Target resolves the strategy and model of a single run. Empty
// names select the first configured entry.
func (env *Environment) Target(strategyName, modelName string) (evaluation.Strategy, embedding.ModelID, error) {
	if strategyName == "" {
		strategyName = env.Config.Strategies[0].StrategyName()
	}
	if modelName == "" {
		modelName = env.Config.Models[0].Name
	}

	strategy, err := env.Strategy(strategyName)
	if err != nil {
		return evaluation.Strategy{}, "", err
	}
	model, err := env.Model(modelName)
	if err != nil {
		return evaluation.Strategy{}, "", err
	}
	return strategy, model, nil
}

// ScaleTarget is [Environment.Target] with the configured scale
// section filling in names the caller left empty.
func (env *Environment) ScaleTarget(strategyName, modelName string) (evaluation.Strategy, embedding.ModelID, error) {
	if strategyName == "" {
		strategyName = env.Config.Scale.Strategy
	}
	if modelName == "" {
		modelName = env.Config.Scale.Model
	}
	return env.Target(strategyName, modelName)
}

// Matcher builds the dataset's hierarchy under strategy and the
// matcher for its method, with a fresh embedding session for model.
func (env *Environment) Matcher(strategy evaluation.Strategy, model embedding.ModelID) (*hierarchy.Hierarchy, matcher.Matcher, error) {
	h, err := hierarchy.BuildWithIntents(env.Dataset.Catalog, strategy.Grouping, env.Dataset.Intents)
	if err != nil {
		return nil, nil, err
	}
	options := matcher.Options{DomainWeight: strategy.DomainWeight}
	if strategy.Method != "lexical" {
		options.Session = embedding.NewSession(env.Provider, model)
	}
	m, err := matcher.ForMethod(strategy.Method, options)
	if err != nil {
		return nil, nil, cli.Validation("strategy %q: %w", strategy.Label(), err)
	}
	return h, m, nil
}
