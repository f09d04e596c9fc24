// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalogcmd

import (
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/setup"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// Command returns the "catalog" subcommand group.
func Command(globals *cli.Globals) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Summary: "Inspect and validate tool catalogs",
		Description: `List and inspect the tools of the configured dataset, or validate a
dataset file before evaluating it.

The dataset is the config's dataset file, or the builtin reference
dataset (five domains crossed with three actions) when none is set.`,
		Subcommands: []*cli.Command{
			listCommand(globals),
			showCommand(globals),
			validateCommand(globals),
		},
	}
}

// loadDataset loads the configured dataset.
func loadDataset(globals *cli.Globals) (*toolcatalog.Dataset, error) {
	cfg, err := globals.Config()
	if err != nil {
		return nil, err
	}
	return setup.LoadDataset(cfg)
}

// queryCounts counts the labelled queries that expect each tool.
func queryCounts(dataset *toolcatalog.Dataset) map[string]int {
	counts := make(map[string]int, dataset.Catalog.Len())
	for _, query := range dataset.Queries {
		counts[query.ExpectedTool]++
	}
	return counts
}
