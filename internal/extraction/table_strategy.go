// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"errors"
	"strings"

	"gradescan/internal/normalize"
	"gradescan/internal/sheet"
)

// lowFragmentConfidence marks a consumed fragment whose provider confidence
// is weak enough that its value should be reviewed.
const lowFragmentConfidence = 0.60

// TableStrategy builds one record per reconstructed data row, reading each
// cell through the column assignment of the layout reconstructor.
type TableStrategy struct{}

func (TableStrategy) Name() string  { return "table" }
func (TableStrategy) Priority() int { return 3 }

// Extract requires a reconstructed layout with a name column. Confidence is
// the mean provider confidence across all consumed fragments.
func (TableStrategy) Extract(src *Source) (*sheet.ExtractionResult, error) {
	if src.Layout == nil {
		return nil, errors.New("table strategy requires a reconstructed layout")
	}
	table := src.Layout
	nameCol, ok := table.ColumnByField(sheet.FieldName)
	if !ok {
		return nil, errors.New("no name column detected in layout")
	}
	seqCol, hasSeq := table.ColumnByField(sheet.FieldSequence)
	scoreCols := table.ScoreColumns()

	result := sheet.NewExtractionResult("table")
	for kind := range scoreCols {
		result.DetectedKinds[kind] = true
	}

	confidenceSum := 0.0
	consumed := 0
	for _, row := range table.DataRows {
		cells := make(map[int][]string)
		cellConf := make(map[int]float64)
		rowText := make([]string, 0, len(row))
		for i := range row {
			rowText = append(rowText, row[i].Text)
			col := table.AssignColumn(&row[i])
			if col < 0 {
				// Unassigned fragments are noise or merged-cell spill;
				// ignored beyond the recognized column count.
				continue
			}
			cells[col] = append(cells[col], row[i].Text)
			if c, seen := cellConf[col]; !seen || row[i].Confidence < c {
				cellConf[col] = row[i].Confidence
			}
		}

		joined := strings.Join(rowText, " ")
		if sheet.IsSummaryText(joined) || sheet.IsHeaderText(joined) {
			continue
		}

		name := normalize.CleanPersonName(strings.Join(cells[nameCol], " "))
		if name == "" || !normalize.HasNameScript(name) {
			// A record is only emitted for a resolvable name.
			continue
		}

		rec := sheet.NewPersonRecord(name)
		confidenceSum += cellConf[nameCol]
		consumed++

		if hasSeq {
			if seq, ok := normalize.ParseSequence(strings.Join(cells[seqCol], " ")); ok {
				rec.SequenceNumber = seq
				confidenceSum += cellConf[seqCol]
				consumed++
			}
		}

		for kind, col := range scoreCols {
			raw := strings.Join(cells[col], " ")
			if raw == "" {
				continue
			}
			value, ok := normalize.ParseScore(raw)
			if !ok {
				continue
			}
			rec.SetScore(kind, value)
			if cellConf[col] < lowFragmentConfidence {
				rec.MarkUncertain(kind)
			}
			confidenceSum += cellConf[col]
			consumed++
		}

		result.Records = append(result.Records, rec)
	}

	result.Records = MergeDuplicates(result.Records)
	if consumed > 0 {
		result.Confidence = confidenceSum / float64(consumed)
	}
	result.Normalize()
	return result, nil
}
