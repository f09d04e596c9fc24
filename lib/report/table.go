// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/toolhierarchy/lib/evaluation"
)

// DefaultTopConfusions is the number of confusion pairs shown per row
// when NewTable is given a non-positive limit.
const DefaultTopConfusions = 3

// Row summarises one report.
type Row struct {
	Strategy    string
	Method      string
	Model       string
	Tools       int
	Total       int
	Scored      int
	Correct     int
	Failed      int
	Accuracy    float64
	MeanLatency time.Duration

	// ByDomain and ByAction are keyed by category name.
	ByDomain map[string]evaluation.CategoryAccuracy
	ByAction map[string]evaluation.CategoryAccuracy

	// TopConfusions holds the most frequent confusion pairs.
	TopConfusions []evaluation.ConfusionPair
}

// ScaleRow summarises one scale point.
type ScaleRow struct {
	Strategy    string
	Model       string
	Tools       int
	Queries     int
	Accuracy    float64
	MeanLatency time.Duration
}

// Table is the renderable comparison of a set of runs.
type Table struct {
	Rows []Row

	// Domains and Actions are the union of categories across rows,
	// sorted. They are the per-category column headers.
	Domains []string
	Actions []string

	Scale []ScaleRow

	reports []*evaluation.Report
	points  []evaluation.ScalePoint
}

// NewTable builds a table from comparison reports and scale points;
// either may be empty. topConfusions limits the confusion pairs kept
// per row.
func NewTable(reports []*evaluation.Report, points []evaluation.ScalePoint, topConfusions int) *Table {
	if topConfusions <= 0 {
		topConfusions = DefaultTopConfusions
	}
	table := &Table{reports: reports, points: points}

	domains := make(map[string]bool)
	actions := make(map[string]bool)
	for _, report := range reports {
		row := Row{
			Strategy:    report.Strategy,
			Method:      report.Method,
			Model:       string(report.Model),
			Tools:       report.ToolCount,
			Total:       report.Total,
			Scored:      report.Scored,
			Correct:     report.Correct,
			Failed:      report.Failed,
			Accuracy:    report.Accuracy,
			MeanLatency: report.Latency.Mean,
			ByDomain:    make(map[string]evaluation.CategoryAccuracy, len(report.ByDomain)),
			ByAction:    make(map[string]evaluation.CategoryAccuracy, len(report.ByAction)),
		}
		for _, category := range report.ByDomain {
			row.ByDomain[category.Category] = category
			domains[category.Category] = true
		}
		for _, category := range report.ByAction {
			row.ByAction[category.Category] = category
			actions[category.Category] = true
		}
		row.TopConfusions = report.Confusions[:min(topConfusions, len(report.Confusions))]
		table.Rows = append(table.Rows, row)
	}
	table.Domains = sortedKeys(domains)
	table.Actions = sortedKeys(actions)

	for _, point := range points {
		row := ScaleRow{
			Tools:       point.ToolCount,
			Queries:     point.QueryCount,
			Accuracy:    point.Accuracy,
			MeanLatency: point.MeanLatency,
		}
		if point.Report != nil {
			row.Strategy = point.Report.Strategy
			row.Model = string(point.Report.Model)
		}
		table.Scale = append(table.Scale, row)
	}
	return table
}

// Reports returns the reports the table was built from.
func (t *Table) Reports() []*evaluation.Report {
	return t.reports
}

// ScalePoints returns the scale points the table was built from.
func (t *Table) ScalePoints() []evaluation.ScalePoint {
	return t.points
}

// section is one titled grid of cells, the format-independent shape
// every tabular renderer consumes.
type section struct {
	title   string
	headers []string
	rows    [][]string
}

// sections lays the table out as grids. Empty sections are omitted.
func (t *Table) sections() []section {
	var result []section
	if len(t.Rows) > 0 {
		summary := section{
			title:   "Accuracy",
			headers: []string{"STRATEGY", "METHOD", "MODEL", "TOOLS", "ACCURACY", "CORRECT", "FAILED", "MEAN LATENCY"},
		}
		for _, row := range t.Rows {
			summary.rows = append(summary.rows, []string{
				row.Strategy,
				row.Method,
				row.Model,
				strconv.Itoa(row.Tools),
				percent(row.Accuracy),
				fmt.Sprintf("%d/%d", row.Correct, row.Scored),
				strconv.Itoa(row.Failed),
				formatLatency(row.MeanLatency),
			})
		}
		result = append(result, summary)
		result = append(result, t.categorySection("Accuracy by domain", t.Domains, func(row Row) map[string]evaluation.CategoryAccuracy { return row.ByDomain }))
		result = append(result, t.categorySection("Accuracy by action", t.Actions, func(row Row) map[string]evaluation.CategoryAccuracy { return row.ByAction }))

		confusions := section{
			title:   "Top confusions",
			headers: []string{"STRATEGY", "MODEL", "EXPECTED", "PREDICTED", "COUNT"},
		}
		for _, row := range t.Rows {
			for _, pair := range row.TopConfusions {
				confusions.rows = append(confusions.rows, []string{
					row.Strategy, row.Model, pair.Expected, pair.Predicted, strconv.Itoa(pair.Count),
				})
			}
		}
		if len(confusions.rows) > 0 {
			result = append(result, confusions)
		}
	}

	if len(t.Scale) > 0 {
		scale := section{
			title:   "Accuracy by catalog size",
			headers: []string{"STRATEGY", "MODEL", "TOOLS", "QUERIES", "ACCURACY", "MEAN LATENCY"},
		}
		for _, row := range t.Scale {
			scale.rows = append(scale.rows, []string{
				row.Strategy,
				row.Model,
				strconv.Itoa(row.Tools),
				strconv.Itoa(row.Queries),
				percent(row.Accuracy),
				formatLatency(row.MeanLatency),
			})
		}
		result = append(result, scale)
	}
	return result
}

func (t *Table) categorySection(title string, categories []string, pick func(Row) map[string]evaluation.CategoryAccuracy) section {
	result := section{
		title:   title,
		headers: append([]string{"STRATEGY", "MODEL"}, upper(categories)...),
	}
	for _, row := range t.Rows {
		cells := []string{row.Strategy, row.Model}
		byCategory := pick(row)
		for _, category := range categories {
			accuracy, ok := byCategory[category]
			if !ok || !accuracy.Defined {
				cells = append(cells, "n/a")
				continue
			}
			cells = append(cells, percent(accuracy.Accuracy))
		}
		result.rows = append(result.rows, cells)
	}
	return result
}

func percent(value float64) string {
	return strconv.FormatFloat(value*100, 'f', 1, 64) + "%"
}

// formatLatency prints durations at a precision that suits matcher
// timings: microseconds below a millisecond, otherwise milliseconds.
func formatLatency(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.Round(10 * time.Microsecond).String()
	}
}

func upper(values []string) []string {
	result := make([]string, len(values))
	for i, value := range values {
		result[i] = strings.ToUpper(value)
	}
	return result
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
