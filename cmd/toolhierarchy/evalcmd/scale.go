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

type scaleParams struct {
	cli.JSONOutput
	OutputOptions
	Counts   []int  `json:"counts" flag:"counts" desc:"catalog sizes to evaluate, comma-separated (default: scale.tool_counts from the config)"`
	Strategy string `json:"strategy" flag:"strategy,s" desc:"strategy to sweep (default: scale.strategy, else the first configured strategy)"`
	Model    string `json:"model" flag:"model,m" desc:"embedding model (default: scale.model, else the first configured model)"`
}

// ScaleCommand returns the "scale" command.
func ScaleCommand(globals *cli.Globals) *cli.Command {
	var params scaleParams

	return &cli.Command{
		Name:    "scale",
		Summary: "Measure accuracy as the catalog grows",
		Usage:   "toolhierarchy scale [flags]",
		Description: `Synthesize catalogs of each requested size from the dataset and
evaluate one strategy against each.

Sizes at or below the dataset's tool count keep the first tools by id
and only the queries that target them. Larger sizes keep every tool and
query and add near-duplicate variants of existing tools as distractors,
so accuracy at large sizes shows how well a strategy copes with
crowding rather than with new query types.`,
		Examples: []cli.Example{
			{
				Description: "Sweep the configured sizes",
				Command:     "toolhierarchy scale",
			},
			{
				Description: "Sweep the flat baseline at three sizes",
				Command:     "toolhierarchy scale --counts 6,12,24 --strategy flat",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("scale", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("scale takes no arguments, got %q", args[0])
			}

			env, err := setup.Load(globals, nil)
			if err != nil {
				return err
			}
			out, err := params.resolve(env.Config)
			if err != nil {
				return err
			}
			strategy, model, err := env.ScaleTarget(params.Strategy, params.Model)
			if err != nil {
				return err
			}
			counts := params.Counts
			if len(counts) == 0 {
				counts = env.Config.Scale.ToolCounts
			}
			if len(counts) == 0 {
				return cli.Validation("no catalog sizes: pass --counts or set scale.tool_counts")
			}
			for _, count := range counts {
				if count < 1 {
					return cli.Validation("catalog sizes must be positive, got %d", count)
				}
			}

			logger = logger.With("command", "scale")
			logger.Info("sweeping catalog sizes",
				"strategy", strategy.Label(),
				"model", string(model),
				"counts", counts,
			)

			registry := prometheus.NewRegistry()
			evaluator := env.Evaluator(logger, evaluation.NewMetrics(registry))
			points, err := evaluator.EvaluateAtScale(ctx, env.Generator(), counts, strategy, model)
			if err != nil {
				return err
			}

			if err := out.save(env, registry, nil, points, logger); err != nil {
				return err
			}
			if done, err := params.EmitJSON(points); done {
				return err
			}
			return out.render(nil, points)
		},
	}
}
