// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"regexp"
	"strings"

	"gradescan/internal/normalize"
	"gradescan/internal/sheet"
)

var (
	// A contiguous run of name-script characters, allowing internal spaces,
	// apostrophes and hyphens.
	nameRunPattern = regexp.MustCompile(`[\p{Arabic}\p{Latin}][\p{Arabic}\p{Latin}'’\-]*(?:[ ][\p{Arabic}\p{Latin}][\p{Arabic}\p{Latin}'’\-]*)*`)

	// Digit tokens with an optional decimal part, after numeral translation.
	numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// LineStrategy extracts records from plain text lines with no geometry: a
// run of name-script characters is the name, digit tokens are candidate
// scores assigned positionally in declared kind order.
type LineStrategy struct{}

func (LineStrategy) Name() string  { return "line" }
func (LineStrategy) Priority() int { return 2 }

func (LineStrategy) Extract(src *Source) (*sheet.ExtractionResult, error) {
	result := sheet.NewExtractionResult("line")

	// Positional assignment follows the declared kind order, narrowed to the
	// kinds the header actually announced when a layout is available.
	kindSeq := sheet.KindOrder
	if src.Layout != nil {
		if cols := src.Layout.ScoreColumns(); len(cols) > 0 {
			kindSeq = nil
			for _, kind := range sheet.KindOrder {
				if _, ok := cols[kind]; ok {
					kindSeq = append(kindSeq, kind)
				}
			}
		}
	}

	for _, rawLine := range strings.Split(src.FullText, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || sheet.IsHeaderText(line) || sheet.IsSummaryText(line) {
			continue
		}
		translated := normalize.TranslateDigits(line)

		name := longestNameRun(translated)
		name = normalize.CleanPersonName(name)
		if name == "" || !normalize.HasNameScript(name) {
			continue
		}

		rec := sheet.NewPersonRecord(name)
		tokens := numberPattern.FindAllString(translated, -1)

		// A leading bare integer before the name is the row's sequence
		// number, not a score.
		if len(tokens) > 0 && !strings.Contains(tokens[0], ".") && !strings.Contains(tokens[0], ",") {
			if idx := strings.Index(translated, tokens[0]); idx >= 0 && idx < strings.Index(translated, firstNameToken(name, translated)) {
				if seq, ok := normalize.ParseSequence(tokens[0]); ok {
					rec.SequenceNumber = seq
					tokens = tokens[1:]
				}
			}
		}

		kindIdx := 0
		for _, tok := range tokens {
			if kindIdx >= len(kindSeq) {
				break
			}
			value, ok := normalize.ParseScore(tok)
			if !ok {
				continue
			}
			kind := kindSeq[kindIdx]
			rec.SetScore(kind, value)
			result.DetectedKinds[kind] = true
			kindIdx++
		}

		// A name alone is not a record: without at least one value on the
		// same line there is nothing to pair, and the aggressive fallback
		// handles documents where names and numbers sit on separate lines.
		if kindIdx == 0 && rec.SequenceNumber == 0 {
			continue
		}

		result.Records = append(result.Records, rec)
	}

	result.Records = MergeDuplicates(result.Records)
	if len(result.Records) > 0 {
		// Fixed constant: positional assignment carries structural
		// uncertainty regardless of how clean the text looks.
		result.Confidence = LineConfidence
	}
	result.Normalize()
	return result, nil
}

// longestNameRun returns the longest contiguous name-script run in the line.
func longestNameRun(line string) string {
	runs := nameRunPattern.FindAllString(line, -1)
	best := ""
	for _, run := range runs {
		if len([]rune(run)) > len([]rune(best)) {
			best = run
		}
	}
	return best
}

// firstNameToken locates the first token of name within line, falling back
// to the name itself.
func firstNameToken(name, line string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	if strings.Contains(line, fields[0]) {
		return fields[0]
	}
	return name
}
