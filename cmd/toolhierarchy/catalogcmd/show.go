// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalogcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

type showParams struct {
	cli.JSONOutput
}

// showOutput is the JSON shape of a shown tool.
type showOutput struct {
	Tool    toolcatalog.Tool `json:"tool"`
	Queries []string         `json:"queries"`
}

func showCommand(globals *cli.Globals) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one tool and its labelled queries",
		Usage:   "toolhierarchy catalog show <id> [flags]",
		Description: `Display a tool's record and every query in the dataset labelled with
it. An unknown id is answered with the closest fuzzy matches.`,
		Examples: []cli.Example{
			{
				Description: "Show the file reader",
				Command:     "toolhierarchy catalog show file_read",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one tool id required\n\nUsage: toolhierarchy catalog show <id> [flags]")
			}
			dataset, err := loadDataset(globals)
			if err != nil {
				return err
			}

			tool, err := dataset.Catalog.Lookup(args[0])
			if err != nil {
				var notFound *toolcatalog.NotFoundError
				if !errors.As(err, &notFound) {
					return err
				}
				toolErr := cli.NotFound("tool %q not found", args[0])
				if suggestions := toolcatalog.SuggestIDs(dataset.Catalog, args[0], 3); len(suggestions) > 0 {
					toolErr.WithHint("Did you mean: " + strings.Join(suggestions, ", ") + "?")
				}
				return toolErr
			}

			output := showOutput{Tool: tool}
			for _, query := range dataset.Queries {
				if query.ExpectedTool == tool.ID {
					output.Queries = append(output.Queries, query.Query)
				}
			}
			if done, err := params.EmitJSON(output); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "ID:\t%s\n", tool.ID)
			fmt.Fprintf(writer, "Name:\t%s\n", tool.Name)
			fmt.Fprintf(writer, "Description:\t%s\n", tool.Description)
			fmt.Fprintf(writer, "Domain:\t%s\n", tool.Domain)
			fmt.Fprintf(writer, "Action:\t%s\n", tool.Action)
			fmt.Fprintf(writer, "Embedded text:\t%s\n", tool.Text())
			if err := writer.Flush(); err != nil {
				return err
			}
			if len(output.Queries) > 0 {
				fmt.Printf("\nQueries (%d):\n", len(output.Queries))
				for _, query := range output.Queries {
					fmt.Printf("  %s\n", query)
				}
			}
			return nil
		},
	}
}
