// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/setup"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
	"github.com/bureau-foundation/toolhierarchy/lib/report"
)

type evaluateParams struct {
	cli.JSONOutput
	Strategy string `json:"strategy" flag:"strategy,s" desc:"strategy to evaluate (default: the first configured strategy)"`
	Model    string `json:"model" flag:"model,m" desc:"embedding model (default: the first configured model)"`
	Outcomes bool   `json:"outcomes" flag:"outcomes" desc:"list the outcome of every query"`
}

// EvaluateCommand returns the "evaluate" command.
func EvaluateCommand(globals *cli.Globals) *cli.Command {
	var params evaluateParams

	return &cli.Command{
		Name:    "evaluate",
		Summary: "Evaluate one strategy under one model",
		Usage:   "toolhierarchy evaluate [flags]",
		Description: `Match every labelled query of the dataset under one strategy and
model and report accuracy, per-category breakdowns, confusions,
failures, latency, and embedding traffic.

A query the matcher cannot answer (for example because the embedding
endpoint rejected it) is listed as a failure and does not count against
accuracy.`,
		Examples: []cli.Example{
			{
				Description: "Evaluate the domain grouping with the default model",
				Command:     "toolhierarchy evaluate --strategy domain",
			},
			{
				Description: "Show every query's prediction",
				Command:     "toolhierarchy evaluate -s hybrid -m hashing-512 --outcomes",
			},
			{
				Description: "Full report as JSON",
				Command:     "toolhierarchy evaluate --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("evaluate", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("evaluate takes no arguments, got %q", args[0])
			}

			env, err := setup.Load(globals, nil)
			if err != nil {
				return err
			}
			strategy, model, err := env.Target(params.Strategy, params.Model)
			if err != nil {
				return err
			}

			logger = logger.With("command", "evaluate")
			evaluator := env.Evaluator(logger, nil)
			reports, err := evaluator.CompareStrategies(ctx, env.Dataset, []evaluation.Strategy{strategy}, []embedding.ModelID{model})
			if err != nil {
				return err
			}
			result := reports[0]

			if done, err := params.EmitJSON(result); done {
				return err
			}
			return printReport(result, evaluator.Traffic(), params.Outcomes)
		},
	}
}

// printReport writes a report summary, its breakdown tables, and its
// failures to stdout.
func printReport(result *evaluation.Report, traffic embedding.Stats, outcomes bool) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Strategy:\t%s (%s grouping, %s)\n", result.Strategy, result.Grouping, result.Method)
	if result.Model != "" {
		fmt.Fprintf(writer, "Model:\t%s\n", result.Model)
	}
	fmt.Fprintf(writer, "Catalog:\t%d tools in %d groups\n", result.ToolCount, result.GroupCount)
	fmt.Fprintf(writer, "Queries:\t%d (%d scored, %d failed)\n", result.Total, result.Scored, result.Failed)
	fmt.Fprintf(writer, "Accuracy:\t%.1f%% (%d/%d)\n", result.Accuracy*100, result.Correct, result.Scored)
	fmt.Fprintf(writer, "Latency:\tmean %s, p50 %s, p95 %s, max %s\n",
		roundLatency(result.Latency.Mean), roundLatency(result.Latency.P50),
		roundLatency(result.Latency.P95), roundLatency(result.Latency.Max))
	fmt.Fprintf(writer, "Embedding:\t%d provider calls, %d texts embedded, %d cache hits\n",
		traffic.Requests(), traffic.TextsEmbedded, traffic.CacheHits)
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Println()
	table := report.NewTable([]*evaluation.Report{result}, nil, len(result.Confusions))
	if err := table.Render(os.Stdout, report.FormatText, report.Options{}); err != nil {
		return err
	}

	if len(result.Failures) > 0 {
		fmt.Println("\nFAILURES")
		writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, failure := range result.Failures {
			fmt.Fprintf(writer, "%q\t%s\t%s\n", failure.Query, failure.ExpectedTool, failure.Error)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}

	if outcomes {
		fmt.Println("\nOUTCOMES")
		writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "RESULT\tQUERY\tEXPECTED\tPREDICTED\tSCORE")
		for _, outcome := range result.Outcomes {
			status := "ok"
			switch {
			case outcome.Error != "":
				status = "failed"
			case !outcome.Correct:
				status = "miss"
			}
			fmt.Fprintf(writer, "%s\t%q\t%s\t%s\t%.3f\n",
				status, outcome.Query, outcome.ExpectedTool, outcome.PredictedTool, outcome.Score)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func roundLatency(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}
