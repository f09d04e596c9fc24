// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/catalogcmd"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/evalcmd"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/matchcmd"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/reportcmd"
	"github.com/bureau-foundation/toolhierarchy/lib/version"
)

// Root builds and returns the complete command tree.
func Root() *cli.Command {
	globals := &cli.Globals{}

	return &cli.Command{
		Name: "toolhierarchy",
		Description: `toolhierarchy: evaluate hierarchical tool selection.

Organise a catalog of tools into groups (by domain, by action, or by
both), route natural-language requests to a group and then to a tool by
embedding similarity, and measure how often the right tool is chosen
compared with a flat search over every tool.

Runs are configured by a YAML file given with --config or the
TOOLHIERARCHY_CONFIG environment variable. Without one, the builtin
dataset is evaluated with a local hashing model.`,
		Globals: globals,
		Subcommands: []*cli.Command{
			evalcmd.EvaluateCommand(globals),
			evalcmd.CompareCommand(globals),
			evalcmd.ScaleCommand(globals),
			matchcmd.Command(globals),
			catalogcmd.Command(globals),
			reportcmd.Command(globals),
			modelsCommand(globals),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Compare the default strategies on the builtin dataset",
				Command:     "toolhierarchy compare",
			},
			{
				Description: "Compare with a run config and save an archive",
				Command:     "toolhierarchy --config run.yaml compare --archive run.cbor.zst",
			},
			{
				Description: "See which tool a request resolves to",
				Command:     "toolhierarchy match delete the old log files -s hybrid",
			},
			{
				Description: "Measure accuracy as the catalog grows",
				Command:     "toolhierarchy scale --counts 15,30,60,120",
			},
			{
				Description: "List the embedding models a config registers",
				Command:     "toolhierarchy --config run.yaml models",
			},
			{
				Description: "Check a hand-written catalog",
				Command:     "toolhierarchy catalog validate tools.yaml",
			},
		},
	}
}

type versionParams struct {
	cli.JSONOutput
}

func versionCommand() *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
			if done, err := params.EmitJSON(version.Stamp()); done {
				return err
			}
			fmt.Printf("toolhierarchy %s\n", version.Full())
			return nil
		},
	}
}
