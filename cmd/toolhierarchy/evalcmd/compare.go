// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evalcmd

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/setup"
	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
)

type compareParams struct {
	cli.JSONOutput
	OutputOptions
	Strategies []string `json:"strategies" flag:"strategy,s" desc:"strategies to compare, repeatable or comma-separated (default: every configured strategy)"`
	Models     []string `json:"models" flag:"model,m" desc:"models to compare, repeatable or comma-separated (default: every configured model)"`
}

// CompareCommand returns the "compare" command.
func CompareCommand(globals *cli.Globals) *cli.Command {
	var params compareParams

	return &cli.Command{
		Name:    "compare",
		Summary: "Compare strategies across embedding models",
		Usage:   "toolhierarchy compare [flags]",
		Description: `Evaluate the dataset under every combination of strategy and model
and print a comparison table: overall accuracy, accuracy per domain and
per action, the most frequent confusions, and mean match latency.

Each combination gets a fresh hierarchy and embedding session, so no
vector is shared between models. Rows are ordered strategy-major in the
order strategies and models are given.`,
		Examples: []cli.Example{
			{
				Description: "Compare every configured strategy and model",
				Command:     "toolhierarchy compare",
			},
			{
				Description: "Compare two groupings under two local models as a styled table",
				Command:     "toolhierarchy compare -s flat,hybrid -m hashing-64,hashing-256 --format table",
			},
			{
				Description: "Save a compressed archive and Prometheus metrics",
				Command:     "toolhierarchy compare --archive run.cbor.zst --metrics-file run.prom",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("compare", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("compare takes no arguments, got %q", args[0])
			}

			env, err := setup.Load(globals, nil)
			if err != nil {
				return err
			}
			out, err := params.resolve(env.Config)
			if err != nil {
				return err
			}
			strategies, err := env.Strategies(params.Strategies)
			if err != nil {
				return err
			}
			models, err := env.Models(params.Models)
			if err != nil {
				return err
			}

			logger = logger.With("command", "compare")
			logger.Info("comparing strategies",
				"config", globals.String(),
				"strategies", len(strategies),
				"models", len(models),
				"queries", len(env.Dataset.Queries),
			)

			registry := prometheus.NewRegistry()
			evaluator := env.Evaluator(logger, evaluation.NewMetrics(registry))
			reports, err := evaluator.CompareStrategies(ctx, env.Dataset, strategies, models)
			if err != nil {
				return err
			}

			if err := out.save(env, registry, reports, nil, logger); err != nil {
				return err
			}
			if done, err := params.EmitJSON(reports); done {
				return err
			}
			return out.render(reports, nil)
		},
	}
}
