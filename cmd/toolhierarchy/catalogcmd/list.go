// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalogcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/lib/bm25"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

type listParams struct {
	cli.JSONOutput
	Domain string `json:"domain" flag:"domain" desc:"only list tools in this domain"`
	Action string `json:"action" flag:"action" desc:"only list tools performing this action"`
	Search string `json:"search" flag:"search" desc:"rank tools by BM25 relevance to this text, dropping tools that share no terms"`
	Limit  int    `json:"limit" flag:"limit" desc:"with --search, list at most this many tools (0 for all)"`
}

// toolSummary is a tool with the number of queries labelled with it.
type toolSummary struct {
	toolcatalog.Tool
	Queries int     `json:"queries"`
	Score   float64 `json:"score,omitempty"`
}

func listCommand(globals *cli.Globals) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List the tools of the dataset",
		Usage:   "toolhierarchy catalog list [flags]",
		Examples: []cli.Example{
			{
				Description: "List every tool",
				Command:     "toolhierarchy catalog list",
			},
			{
				Description: "Find the tools closest to a request by keyword",
				Command:     "toolhierarchy catalog list --search 'remove old files' --limit 3",
			},
			{
				Description: "List the email tools as JSON",
				Command:     "toolhierarchy catalog list --domain email --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("list takes no arguments, got %q", args[0])
			}
			dataset, err := loadDataset(globals)
			if err != nil {
				return err
			}

			counts := queryCounts(dataset)
			var tools []toolSummary
			for _, tool := range dataset.Catalog.Tools() {
				if params.Domain != "" && tool.Domain != params.Domain {
					continue
				}
				if params.Action != "" && tool.Action != params.Action {
					continue
				}
				tools = append(tools, toolSummary{Tool: tool, Queries: counts[tool.ID]})
			}
			if params.Search != "" {
				tools = rankTools(tools, params.Search, params.Limit)
			}

			if done, err := params.EmitJSON(tools); done {
				return err
			}

			if len(tools) == 0 {
				fmt.Fprintln(os.Stderr, "No tools match.")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			if params.Search != "" {
				fmt.Fprintln(writer, "ID\tNAME\tDOMAIN\tACTION\tQUERIES\tSCORE")
			} else {
				fmt.Fprintln(writer, "ID\tNAME\tDOMAIN\tACTION\tQUERIES")
			}
			for _, tool := range tools {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d", tool.ID, tool.Name, tool.Domain, tool.Action, tool.Queries)
				if params.Search != "" {
					fmt.Fprintf(writer, "\t%.3f", tool.Score)
				}
				fmt.Fprintln(writer)
			}
			if err := writer.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%d of %d tools (%d domains, %d actions)\n",
				len(tools), dataset.Catalog.Len(), len(dataset.Catalog.Domains()), len(dataset.Catalog.Actions()))
			return nil
		},
	}
}

// rankTools orders tools by BM25 relevance to query over their text
// and labels, keeping only tools that share a term with it.
func rankTools(tools []toolSummary, query string, limit int) []toolSummary {
	documents := make([]bm25.Document, len(tools))
	byID := make(map[string]toolSummary, len(tools))
	for i, tool := range tools {
		documents[i] = bm25.Document{Name: tool.ID, Fields: []bm25.Field{
			{Text: tool.Text(), Weight: 2},
			{Text: tool.Domain + " " + tool.Action, Weight: 1},
		}}
		byID[tool.ID] = tool
	}

	results := bm25.New(documents).Search(query, limit)
	ranked := make([]toolSummary, len(results))
	for i, result := range results {
		ranked[i] = byID[result.Name]
		ranked[i].Score = result.Score
	}
	return ranked
}
