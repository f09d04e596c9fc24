// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/setup"
	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
)

type modelsParams struct {
	cli.JSONOutput
}

// modelSummary describes one registered embedding model.
type modelSummary struct {
	Name       string `json:"name"`
	Provider   string `json:"provider"`
	Dimensions int    `json:"dimensions,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
}

func modelsCommand(globals *cli.Globals) *cli.Command {
	var params modelsParams

	return &cli.Command{
		Name:    "models",
		Summary: "List the configured embedding models",
		Description: `List every embedding model the configuration registers, with the
provider serving it. Hashing models report their vector length; the
length of a remote model is only known once it answers.`,
		Usage: "toolhierarchy models [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("models", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("models takes no arguments, got %q", args[0])
			}
			cfg, err := globals.Config()
			if err != nil {
				return err
			}

			mux := setup.NewProvider(cfg.Models, nil)
			models := make([]modelSummary, 0, len(cfg.Models))
			for _, id := range mux.Models() {
				summary := modelSummary{Name: string(id)}
				provider, _ := mux.Provider(id)
				switch provider := provider.(type) {
				case *embedding.Hashing:
					summary.Provider = "hashing"
					summary.Dimensions = provider.Dimensions()
				case *embedding.OpenAI:
					summary.Provider = "openai"
					if modelConfig, ok := cfg.Model(string(id)); ok {
						summary.Endpoint = modelConfig.Endpoint
					}
				default:
					summary.Provider = fmt.Sprintf("%T", provider)
				}
				models = append(models, summary)
			}

			if done, err := params.EmitJSON(models); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "MODEL\tPROVIDER\tDIMENSIONS\tENDPOINT")
			for _, model := range models {
				dimensions := "-"
				if model.Dimensions > 0 {
					dimensions = fmt.Sprint(model.Dimensions)
				}
				endpoint := model.Endpoint
				if endpoint == "" {
					endpoint = "-"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", model.Name, model.Provider, dimensions, endpoint)
			}
			return writer.Flush()
		},
	}
}
