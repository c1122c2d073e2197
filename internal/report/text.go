// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"gradescan/internal/normalize"
	"gradescan/internal/pipeline"
	"gradescan/internal/sheet"
)

// TextFormatter implements text-based output formatting
type TextFormatter struct {
	colors map[string]*color.Color
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *TextFormatter) Name() string {
	return "text"
}

func (f *TextFormatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *TextFormatter) Format(report *pipeline.Report, options Options) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var sb strings.Builder

	sb.WriteString(f.colors["white"].Sprint("Grade Sheet Extraction Report"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 30))
	sb.WriteString("\n\n")

	status := f.colors["green"].Sprint("VALID")
	if !report.Valid {
		status = f.colors["red"].Sprint("NEEDS REVIEW")
	}
	fmt.Fprintf(&sb, "Status:     %s\n", status)
	fmt.Fprintf(&sb, "Strategy:   %s\n", report.Strategy)
	fmt.Fprintf(&sb, "Confidence: %s\n", f.confidenceLabel(report.Confidence))
	fmt.Fprintf(&sb, "Records:    %d\n", len(report.Records))

	if len(report.Records) == 0 {
		sb.WriteString("\nNo records extracted.\n")
		f.writeNotes(&sb, report)
		return sb.String(), nil
	}

	sb.WriteString("\n")
	f.writeTable(&sb, report)
	f.writeLinkage(&sb, report)
	f.writeNotes(&sb, report)
	return sb.String(), nil
}

func (f *TextFormatter) confidenceLabel(conf float64) string {
	text := fmt.Sprintf("%.2f", conf)
	switch {
	case conf >= 0.75:
		return f.colors["green"].Sprint(text)
	case conf >= 0.50:
		return f.colors["yellow"].Sprint(text)
	default:
		return f.colors["red"].Sprint(text)
	}
}

func (f *TextFormatter) writeTable(sb *strings.Builder, report *pipeline.Report) {
	headers := []string{"#", "Name"}
	for _, kind := range report.DetectedKinds {
		headers = append(headers, string(kind))
	}

	rows := make([][]string, 0, len(report.Records))
	for _, rec := range report.Records {
		row := []string{sequenceCell(rec), rec.Name}
		for _, kind := range report.DetectedKinds {
			row = append(row, scoreCell(rec, kind))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			fmt.Fprintf(sb, "%-*s  ", widths[i], cell)
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, w := range widths {
		fmt.Fprintf(sb, "%s  ", strings.Repeat("-", w))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
}

func sequenceCell(rec *sheet.PersonRecord) string {
	if rec.SequenceNumber == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", rec.SequenceNumber)
}

// scoreCell renders a score, suffixing '?' when the field was flagged
// uncertain during extraction or statistical correction.
func scoreCell(rec *sheet.PersonRecord, kind sheet.ScoreKind) string {
	v, ok := rec.Score(kind)
	if !ok {
		return "-"
	}
	cell := normalize.FormatScore(v)
	if rec.Uncertain[string(kind)] {
		cell += "?"
	}
	return cell
}

func (f *TextFormatter) writeLinkage(sb *strings.Builder, report *pipeline.Report) {
	if len(report.RowAssignments) == 0 && len(report.NotLinked) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(f.colors["cyan"].Sprint("Destination rows"))
	sb.WriteString("\n")

	names := make([]string, 0, len(report.RowAssignments))
	for name := range report.RowAssignments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "  %s -> row %d\n", name, report.RowAssignments[name])
	}
	for _, name := range report.NotLinked {
		fmt.Fprintf(sb, "  %s -> %s\n", name, f.colors["yellow"].Sprint("no match"))
	}
}

func (f *TextFormatter) writeNotes(sb *strings.Builder, report *pipeline.Report) {
	if len(report.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colors["yellow"].Sprint("Warnings"))
		sb.WriteString("\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(sb, "  - %s\n", w)
		}
	}
	if len(report.Issues) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colors["red"].Sprint("Issues"))
		sb.WriteString("\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(sb, "  - %s\n", issue)
		}
	}
}
