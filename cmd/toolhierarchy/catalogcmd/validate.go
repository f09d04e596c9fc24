// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalogcmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// builtinName stands in for the path of the builtin dataset.
const builtinName = "(builtin)"

type validateParams struct {
	cli.JSONOutput
	Queries string `json:"queries" flag:"queries" desc:"also validate this query file against the catalog"`
}

// validateOutput is the JSON shape of a validation.
type validateOutput struct {
	Path     string   `json:"path"`
	Valid    bool     `json:"valid"`
	Tools    int      `json:"tools"`
	Domains  int      `json:"domains"`
	Actions  int      `json:"actions"`
	Queries  int      `json:"queries"`
	Problems []string `json:"problems,omitempty"`
}

func validateCommand(globals *cli.Globals) *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Validate a dataset file",
		Usage:   "toolhierarchy catalog validate [path] [flags]",
		Description: `Load a dataset file (YAML, JSON, JSONC, or TOML) and report every
problem found: duplicate or empty ids, empty descriptions, missing
domains or actions, a '/' in a domain or action, queries without text
or naming unknown tools, and intents for unknown groups.

Without a path, the configured dataset is validated. Exits 1 when any
problem is found.`,
		Examples: []cli.Example{
			{
				Description: "Validate a catalog and a separate query file",
				Command:     "toolhierarchy catalog validate tools.yaml --queries queries.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("validate", &params)
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("at most one path allowed, got %d", len(args))
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := globals.Config()
				if err != nil {
					return err
				}
				path = cfg.Dataset
			}

			output, err := validate(path, params.Queries)
			if err != nil {
				return err
			}
			logger.Debug("validated dataset", "path", output.Path, "problems", len(output.Problems))

			if done, err := params.EmitJSON(output); done {
				if err == nil && !output.Valid {
					err = &cli.ExitError{Code: 1}
				}
				return err
			}

			if output.Valid {
				fmt.Printf("OK  %s: %d tools (%d domains, %d actions), %d queries\n",
					output.Path, output.Tools, output.Domains, output.Actions, output.Queries)
				return nil
			}
			fmt.Printf("FAIL  %s: %d problems\n", output.Path, len(output.Problems))
			for _, problem := range output.Problems {
				fmt.Printf("  - %s\n", problem)
			}
			return &cli.ExitError{Code: 1}
		},
	}
}

// validate loads path (the builtin dataset when empty) and optionally
// a query file. Problems with the files' contents are collected into
// the output; only a missing file is returned as an error.
func validate(path, queriesPath string) (validateOutput, error) {
	output := validateOutput{Path: path}
	var dataset *toolcatalog.Dataset
	var err error
	if path == "" {
		output.Path = builtinName
		dataset, err = toolcatalog.Builtin()
	} else {
		dataset, err = toolcatalog.LoadFile(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return validateOutput{}, cli.NotFound("dataset %s: %w", path, err)
		}
		output.Problems = problems(path, err)
		return output, nil
	}

	output.Tools = dataset.Catalog.Len()
	output.Domains = len(dataset.Catalog.Domains())
	output.Actions = len(dataset.Catalog.Actions())
	output.Queries = len(dataset.Queries)

	if queriesPath != "" {
		queries, err := toolcatalog.LoadQueriesFile(queriesPath, dataset.Catalog)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return validateOutput{}, cli.NotFound("query file %s: %w", queriesPath, err)
		case err != nil:
			output.Problems = problems(queriesPath, err)
			return output, nil
		}
		output.Queries = len(queries)
	}

	output.Valid = true
	return output, nil
}

// problems splits a load error into one line per problem, without the
// file path prefix the loaders add.
func problems(path string, err error) []string {
	var invalid *toolcatalog.InvalidCatalogError
	if errors.As(err, &invalid) {
		return strings.Split(invalid.Reason, "; ")
	}
	message := strings.TrimPrefix(err.Error(), path+": ")
	return strings.Split(message, "\n")
}
