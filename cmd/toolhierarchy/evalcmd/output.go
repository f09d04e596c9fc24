// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evalcmd

import (
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/cli"
	"github.com/bureau-foundation/toolhierarchy/cmd/toolhierarchy/setup"
	"github.com/bureau-foundation/toolhierarchy/lib/config"
	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
	"github.com/bureau-foundation/toolhierarchy/lib/report"
)

// OutputOptions are the rendering and artifact flags of compare and
// scale.
//
// Exported so that the embedded fields are visible to reflection in
// [cli.FlagsFromParams].
type OutputOptions struct {
	Format      string `json:"format" flag:"format,f" desc:"output format: text, table, markdown, html, or json (default: output.format from the config)"`
	Archive     string `json:"archive" flag:"archive" desc:"save results to this archive: .json or .cbor, optionally followed by .zst or .lz4 (default: output.archive)"`
	MetricsFile string `json:"metrics_file" flag:"metrics-file" desc:"write Prometheus metrics in textfile format (default: output.metrics_file)"`
	Top         int    `json:"top" flag:"top" default:"3" desc:"confusion pairs shown per row"`
	NoColor     bool   `json:"no_color" flag:"no-color" desc:"never colour output, even on a terminal"`
}

// output is OutputOptions merged with the config and checked.
type output struct {
	format      string
	archive     string
	metricsFile string
	top         int
	color       bool
}

// resolve fills unset options from cfg and rejects a bad format or
// archive extension before any evaluation runs.
func (o *OutputOptions) resolve(cfg *config.Config) (output, error) {
	resolved := output{
		format:      o.Format,
		archive:     o.Archive,
		metricsFile: o.MetricsFile,
		top:         o.Top,
		color:       !o.NoColor && report.ColorEnabled(os.Stdout),
	}
	if resolved.format == "" {
		resolved.format = cfg.Output.Format
	}
	if resolved.archive == "" {
		resolved.archive = cfg.Output.Archive
	}
	if resolved.metricsFile == "" {
		resolved.metricsFile = cfg.Output.MetricsFile
	}

	if !slices.Contains(report.Formats, resolved.format) {
		return output{}, cli.Validation("unknown output format %q", resolved.format).
			WithHint("Formats: " + strings.Join(report.Formats, ", "))
	}
	if resolved.archive != "" {
		if err := report.CheckPath(resolved.archive); err != nil {
			return output{}, cli.Validation("%w", err)
		}
	}
	if resolved.top < 0 {
		return output{}, cli.Validation("--top must not be negative, got %d", resolved.top)
	}
	return resolved, nil
}

// save writes the archive and metrics file, whichever were requested.
func (out output) save(env *setup.Environment, gatherer prometheus.Gatherer, reports []*evaluation.Report, points []evaluation.ScalePoint, logger *slog.Logger) error {
	if out.archive != "" {
		archive, err := report.NewArchive(env.Clock, reports, points)
		if err != nil {
			return cli.Internal("building archive: %w", err)
		}
		if err := archive.Save(out.archive); err != nil {
			return cli.Internal("saving archive: %w", err)
		}
		logger.Info("saved archive",
			"path", out.archive,
			"run_id", archive.RunID.String(),
			"fingerprint", archive.Fingerprint,
		)
	}
	if out.metricsFile != "" {
		if err := prometheus.WriteToTextfile(out.metricsFile, gatherer); err != nil {
			return cli.Internal("writing metrics: %w", err)
		}
		logger.Info("wrote metrics", "path", out.metricsFile)
	}
	return nil
}

// render prints the comparison table to stdout.
func (out output) render(reports []*evaluation.Report, points []evaluation.ScalePoint) error {
	table := report.NewTable(reports, points, out.top)
	return table.Render(os.Stdout, out.format, report.Options{Color: out.color})
}
