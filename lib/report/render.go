// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
)

// Output formats accepted by [Table.Render].
const (
	FormatText     = "text"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Formats lists every output format.
var Formats = []string{FormatText, FormatTable, FormatMarkdown, FormatHTML, FormatJSON}

// DefaultMaxCellWidth bounds cell width in the table format.
const DefaultMaxCellWidth = 28

// Options tunes rendering.
type Options struct {
	// Color enables ANSI styling in the table and json formats. The
	// other formats never emit escape sequences.
	Color bool

	// MaxCellWidth truncates wider cells in the table format. Zero
	// means DefaultMaxCellWidth.
	MaxCellWidth int
}

// Render writes the table to w in format. An empty format means text.
func (t *Table) Render(w io.Writer, format string, options Options) error {
	switch format {
	case "", FormatText:
		return t.renderText(w)
	case FormatTable:
		return t.renderStyled(w, options)
	case FormatMarkdown:
		_, err := io.WriteString(w, t.markdown())
		return err
	case FormatHTML:
		return t.renderHTML(w)
	case FormatJSON:
		return t.renderJSON(w, options)
	}
	return fmt.Errorf("report: unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

func (t *Table) renderText(w io.Writer) error {
	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, section := range t.sections() {
		if i > 0 {
			fmt.Fprintln(writer)
		}
		fmt.Fprintln(writer, strings.ToUpper(section.title))
		fmt.Fprintln(writer, strings.Join(section.headers, "\t"))
		for _, row := range section.rows {
			fmt.Fprintln(writer, strings.Join(row, "\t"))
		}
	}
	return writer.Flush()
}

// renderStyled draws each section as a bordered lipgloss table. The
// renderer's colour profile is forced from options so output does not
// depend on whatever terminal the process happens to have.
func (t *Table) renderStyled(w io.Writer, options Options) error {
	profile := termenv.Ascii
	if options.Color {
		profile = termenv.ANSI256
	}
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	maxWidth := options.MaxCellWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxCellWidth
	}

	titleStyle := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle := renderer.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := renderer.NewStyle().Padding(0, 1)
	borderStyle := renderer.NewStyle().Foreground(lipgloss.Color("240"))

	var output strings.Builder
	for i, section := range t.sections() {
		if i > 0 {
			output.WriteString("\n")
		}
		rows := make([][]string, len(section.rows))
		for r, row := range section.rows {
			rows[r] = make([]string, len(row))
			for c, cell := range row {
				rows[r][c] = ansi.Truncate(cell, maxWidth, "…")
			}
		}
		grid := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			StyleFunc(func(row, column int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if row >= 0 && row < len(rows) && column < len(rows[row]) {
					if color, ok := accuracyColor(rows[row][column]); ok {
						return cellStyle.Foreground(color)
					}
				}
				return cellStyle
			}).
			Headers(section.headers...).
			Rows(rows...)
		output.WriteString(titleStyle.Render(section.title))
		output.WriteString("\n")
		output.WriteString(grid.Render())
		output.WriteString("\n")
	}
	_, err := io.WriteString(w, output.String())
	return err
}

// accuracyColor picks a colour for percentage cells: green from 80%,
// yellow from 50%, red below.
func accuracyColor(cell string) (lipgloss.Color, bool) {
	number, ok := strings.CutSuffix(cell, "%")
	if !ok {
		return "", false
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return "", false
	}
	switch {
	case value >= 80:
		return lipgloss.Color("34"), true
	case value >= 50:
		return lipgloss.Color("178"), true
	default:
		return lipgloss.Color("160"), true
	}
}

// markdown renders every section as a GitHub-flavoured table.
func (t *Table) markdown() string {
	var builder strings.Builder
	builder.WriteString("# Tool hierarchy evaluation\n")
	for _, section := range t.sections() {
		fmt.Fprintf(&builder, "\n## %s\n\n", section.title)
		writeMarkdownRow(&builder, section.headers)
		separator := make([]string, len(section.headers))
		for i := range separator {
			separator[i] = "---"
		}
		writeMarkdownRow(&builder, separator)
		for _, row := range section.rows {
			writeMarkdownRow(&builder, row)
		}
	}
	return builder.String()
}

func writeMarkdownRow(builder *strings.Builder, cells []string) {
	builder.WriteString("|")
	for _, cell := range cells {
		builder.WriteString(" ")
		builder.WriteString(strings.ReplaceAll(cell, "|", `\|`))
		builder.WriteString(" |")
	}
	builder.WriteString("\n")
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Tool hierarchy evaluation</title>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

func (t *Table) renderHTML(w io.Writer) error {
	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert([]byte(t.markdown()), &body); err != nil {
		return fmt.Errorf("report: rendering html: %w", err)
	}
	if _, err := io.WriteString(w, htmlHeader); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, htmlFooter)
	return err
}

// jsonDocument is the json format's top-level object.
type jsonDocument struct {
	Reports []*evaluation.Report    `json:"reports"`
	Scale   []evaluation.ScalePoint `json:"scale,omitempty"`
}

func (t *Table) renderJSON(w io.Writer, options Options) error {
	data, err := json.MarshalIndent(jsonDocument{Reports: t.reports, Scale: t.points}, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encoding json: %w", err)
	}
	data = append(data, '\n')
	if options.Color {
		if err := quick.Highlight(w, string(data), "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = w.Write(data)
	return err
}
