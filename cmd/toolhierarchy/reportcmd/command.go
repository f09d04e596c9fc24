// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package reportcmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/lib/report"
)

// Command returns the "report" subcommand group.
func Command(globals *cli.Globals) *cli.Command {
	return &cli.Command{
		Name:    "report",
		Summary: "Work with saved evaluation archives",
		Description: `Re-render archives written by "compare --archive" or "scale --archive".

Archives are JSON or CBOR, optionally compressed with zstd (.zst) or
LZ4 (.lz4), and carry a fingerprint of their results so that edited or
corrupted files are detected.`,
		Subcommands: []*cli.Command{
			showCommand(globals),
		},
	}
}

type showParams struct {
	cli.JSONOutput
	Format   string `json:"format" flag:"format,f" desc:"output format: text, table, markdown, html, or json (default: output.format from the config)"`
	Top      int    `json:"top" flag:"top" default:"3" desc:"confusion pairs shown per row"`
	NoColor  bool   `json:"no_color" flag:"no-color" desc:"never colour output, even on a terminal"`
	NoVerify bool   `json:"no_verify" flag:"no-verify" desc:"render even if the fingerprint does not match"`
}

func showCommand(globals *cli.Globals) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Render a saved archive",
		Usage:   "toolhierarchy report show <archive> [flags]",
		Description: `Load an archive, verify its fingerprint, and render its reports and
scale points in any output format. A fingerprint mismatch is reported
and exits 1 unless --no-verify is given.

With --json the whole archive is printed, including its run id, build
information, and fingerprint.`,
		Examples: []cli.Example{
			{
				Description: "Render a saved comparison as markdown",
				Command:     "toolhierarchy report show run.cbor.zst --format markdown",
			},
			{
				Description: "Print the archive with its metadata",
				Command:     "toolhierarchy report show run.json --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one archive path required\n\nUsage: toolhierarchy report show <archive> [flags]")
			}
			path := args[0]

			format := params.Format
			if format == "" {
				cfg, err := globals.Config()
				if err != nil {
					return err
				}
				format = cfg.Output.Format
			}
			if !slices.Contains(report.Formats, format) {
				return cli.Validation("unknown output format %q", format).
					WithHint("Formats: " + strings.Join(report.Formats, ", "))
			}
			if err := report.CheckPath(path); err != nil {
				return cli.Validation("%w", err)
			}

			archive, err := report.Load(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return cli.NotFound("archive %s not found", path)
				}
				return cli.Validation("%w", err)
			}

			if err := archive.Verify(); err != nil {
				var mismatch *report.FingerprintError
				if !errors.As(err, &mismatch) {
					return cli.Internal("verifying %s: %w", path, err)
				}
				if !params.NoVerify {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, mismatch)
					return &cli.ExitError{Code: 1}
				}
				logger.Warn("rendering archive with mismatched fingerprint",
					"path", path,
					"recorded", mismatch.Recorded,
					"computed", mismatch.Computed,
				)
			}

			if done, err := params.EmitJSON(archive); done {
				return err
			}

			if format == report.FormatText {
				fmt.Printf("Run %s generated %s by toolhierarchy %s\n\n",
					archive.RunID, archive.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), archive.Build.Version)
			}
			color := !params.NoColor && report.ColorEnabled(os.Stdout)
			return archive.Table(params.Top).Render(os.Stdout, format, report.Options{Color: color})
		},
	}
}
