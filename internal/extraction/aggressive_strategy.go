// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"strings"

	"gradescan/internal/normalize"
	"gradescan/internal/sheet"
)

// AggressiveStrategy is the permissive fallback used only when the other
// strategies yield nothing usable: every name-script line becomes a
// candidate name and every numeric token a candidate score, paired in
// document order. Unmatched candidates are dropped, never fabricated.
type AggressiveStrategy struct{}

func (AggressiveStrategy) Name() string  { return "aggressive" }
func (AggressiveStrategy) Priority() int { return 1 }

func (AggressiveStrategy) Extract(src *Source) (*sheet.ExtractionResult, error) {
	result := sheet.NewExtractionResult("aggressive")

	var names []string
	var scores []float64
	for _, rawLine := range strings.Split(src.FullText, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || sheet.IsHeaderText(line) || sheet.IsSummaryText(line) {
			continue
		}
		translated := normalize.TranslateDigits(line)

		if name := normalize.CleanPersonName(longestNameRun(translated)); name != "" && normalize.HasNameScript(name) {
			names = append(names, name)
		}
		for _, tok := range numberPattern.FindAllString(translated, -1) {
			if value, ok := normalize.ParseScore(tok); ok {
				scores = append(scores, value)
			}
		}
	}

	// Pair the i-th name with the i-th score; the shorter list bounds the
	// pairing.
	n := len(names)
	if len(scores) < n {
		n = len(scores)
	}
	for i := 0; i < n; i++ {
		rec := sheet.NewPersonRecord(names[i])
		rec.SetScore(sheet.KindOrder[0], scores[i])
		rec.MarkUncertain(sheet.KindOrder[0])
		result.Records = append(result.Records, rec)
	}

	result.Records = MergeDuplicates(result.Records)
	if len(result.Records) > 0 {
		result.Confidence = AggressiveConfidence
		result.Warnings = append(result.Warnings,
			"degraded extraction: records recovered by aggressive name/score pairing; verify before writeback")
	}
	result.Normalize()
	return result, nil
}
