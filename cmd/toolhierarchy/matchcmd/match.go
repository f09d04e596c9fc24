// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matchcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/setup"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/matcher"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

type matchParams struct {
	cli.JSONOutput
	Strategy string `json:"strategy" flag:"strategy,s" desc:"strategy to match with (default: the first configured strategy)"`
	Model    string `json:"model" flag:"model,m" desc:"embedding model (default: the first configured model)"`
}

// matchOutput is the JSON shape of a match.
type matchOutput struct {
	Query    string            `json:"query"`
	Strategy string            `json:"strategy"`
	Method   string            `json:"method"`
	Model    embedding.ModelID `json:"model,omitempty"`
	Tool     toolcatalog.Tool  `json:"tool"`
	Result   matcher.Result    `json:"result"`
}

// Command returns the "match" command.
func Command(globals *cli.Globals) *cli.Command {
	var params matchParams

	return &cli.Command{
		Name:    "match",
		Summary: "Match a request to a tool",
		Usage:   "toolhierarchy match <query...> [flags]",
		Description: `Resolve a natural-language request to one tool of the dataset's
catalog. Hierarchical strategies first route the request to the group
whose description is most similar, then pick the most similar tool
inside it; the flat strategy compares against every tool directly.

All positional arguments are joined into the query, so quoting is
optional.`,
		Examples: []cli.Example{
			{
				Description: "Match with the default strategy",
				Command:     "toolhierarchy match read the config file",
			},
			{
				Description: "Match with the hybrid grouping and show the routing as JSON",
				Command:     "toolhierarchy match 'send an email to the team' -s hybrid --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("match", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return cli.Validation("query argument required\n\nUsage: toolhierarchy match <query...> [flags]")
			}

			env, err := setup.Load(globals, nil)
			if err != nil {
				return err
			}
			strategy, model, err := env.Target(params.Strategy, params.Model)
			if err != nil {
				return err
			}
			h, m, err := env.Matcher(strategy, model)
			if err != nil {
				return err
			}

			result, err := m.Match(ctx, query, h)
			if err != nil {
				return err
			}
			tool, err := h.Catalog().Lookup(result.ToolID)
			if err != nil {
				return cli.Internal("matched tool: %w", err)
			}
			logger.Debug("matched query",
				"query", query,
				"strategy", strategy.Label(),
				"tool", result.ToolID,
				"score", result.Score,
			)

			output := matchOutput{
				Query:    query,
				Strategy: strategy.Label(),
				Method:   m.Name(),
				Tool:     tool,
				Result:   result,
			}
			if _, ok := m.(matcher.SessionMatcher); ok {
				output.Model = model
			}
			if done, err := params.EmitJSON(output); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "Tool:\t%s\n", tool.ID)
			if tool.Name != "" {
				fmt.Fprintf(writer, "Name:\t%s\n", tool.Name)
			}
			fmt.Fprintf(writer, "Description:\t%s\n", tool.Description)
			fmt.Fprintf(writer, "Score:\t%.4f\n", result.Score)
			if result.Hierarchical {
				fmt.Fprintf(writer, "Group:\t%s (score %.4f)\n", result.GroupLabel, result.GroupScore)
			}
			fmt.Fprintf(writer, "Candidates:\t%d\n", result.Candidates)
			fmt.Fprintf(writer, "Strategy:\t%s (%s)\n", output.Strategy, output.Method)
			if output.Model != "" {
				fmt.Fprintf(writer, "Model:\t%s\n", output.Model)
			}
			return writer.Flush()
		},
	}
}
