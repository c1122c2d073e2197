// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"sort"

	"github.com/bytedance/sonic"

	"gradescan/internal/normalize"
	"gradescan/internal/pipeline"
	"gradescan/internal/sheet"
)

// JSONFormatter implements JSON output formatting
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

// jsonRecord flattens a PersonRecord into stable string-keyed fields so the
// output is diffable regardless of pointer scores.
type jsonRecord struct {
	Sequence  int               `json:"sequence,omitempty"`
	Name      string            `json:"name"`
	Scores    map[string]string `json:"scores"`
	Uncertain []string          `json:"uncertain,omitempty"`
}

type jsonReport struct {
	Records        []jsonRecord   `json:"records"`
	DetectedKinds  []string       `json:"detected_kinds"`
	Confidence     float64        `json:"confidence"`
	Strategy       string         `json:"strategy"`
	Valid          bool           `json:"valid"`
	Warnings       []string       `json:"warnings,omitempty"`
	Issues         []string       `json:"issues,omitempty"`
	RowAssignments map[string]int `json:"row_assignments,omitempty"`
	NotLinked      []string       `json:"not_linked,omitempty"`
}

func (f *JSONFormatter) Format(report *pipeline.Report, options Options) (string, error) {
	out := jsonReport{
		Records:        make([]jsonRecord, 0, len(report.Records)),
		DetectedKinds:  make([]string, 0, len(report.DetectedKinds)),
		Confidence:     report.Confidence,
		Strategy:       report.Strategy,
		Valid:          report.Valid,
		Warnings:       report.Warnings,
		Issues:         report.Issues,
		RowAssignments: report.RowAssignments,
		NotLinked:      report.NotLinked,
	}
	for _, kind := range report.DetectedKinds {
		out.DetectedKinds = append(out.DetectedKinds, string(kind))
	}
	for _, rec := range report.Records {
		out.Records = append(out.Records, flattenRecord(rec, report.DetectedKinds))
	}

	data, err := sonic.ConfigDefault.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data), nil
}

func flattenRecord(rec *sheet.PersonRecord, kinds []sheet.ScoreKind) jsonRecord {
	jr := jsonRecord{
		Sequence: rec.SequenceNumber,
		Name:     rec.Name,
		Scores:   make(map[string]string, len(kinds)),
	}
	for _, kind := range kinds {
		if v, ok := rec.Score(kind); ok {
			jr.Scores[string(kind)] = normalize.FormatScore(v)
		}
	}
	for field, flagged := range rec.Uncertain {
		if flagged {
			jr.Uncertain = append(jr.Uncertain, field)
		}
	}
	sort.Strings(jr.Uncertain)
	return jr
}
