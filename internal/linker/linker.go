// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package linker

import (
	"strings"

	"gradescan/internal/normalize"
	"gradescan/internal/sheet"
)

// Default similarity tuning. The base threshold relaxes when token counts
// match (the name is probably the same words misread) and tightens sharply
// for very short names, where a single edit covers a large fraction of the
// string and false positives get cheap.
const (
	DefaultSimilarity          = 0.82
	DefaultRelaxedSimilarity   = 0.78
	DefaultShortNameSimilarity = 0.90
	DefaultShortNameLength     = 6
)

// Linker finds the destination row matching an extracted name through a
// cascade of increasingly permissive strategies.
type Linker struct {
	Similarity          float64
	RelaxedSimilarity   float64
	ShortNameSimilarity float64
	ShortNameLength     int
}

// NewLinker returns a linker with the default thresholds.
func NewLinker() *Linker {
	return &Linker{
		Similarity:          DefaultSimilarity,
		RelaxedSimilarity:   DefaultRelaxedSimilarity,
		ShortNameSimilarity: DefaultShortNameSimilarity,
		ShortNameLength:     DefaultShortNameLength,
	}
}

// FindRow returns the snapshot row index best matching the name, or false
// when no cascade step succeeds. The returned index is relative to the
// snapshot (add RowOffset for absolute addressing). It never errors: an
// unmatched name is an expected outcome, accumulated by the caller.
func (l *Linker) FindRow(name string, snap *Snapshot, nameColumnIndex int) (int, bool) {
	target := normalize.Name(name)
	if target == "" || snap == nil {
		return 0, false
	}
	targetTokens := normalize.NameTokens(name)

	type candidate struct {
		row  int
		name string
	}
	candidates := make([]candidate, 0, len(snap.Values))
	for i, row := range snap.Values {
		rowName := l.rowName(row, nameColumnIndex)
		if rowName == "" {
			continue
		}
		candidates = append(candidates, candidate{row: i, name: rowName})
	}

	// Step 1: exact equality of normalized strings.
	for _, c := range candidates {
		if c.name == target {
			return c.row, true
		}
	}

	// Step 2: token-set equality, handling swapped given/family name order.
	if len(targetTokens) >= 2 {
		for _, c := range candidates {
			tokens := normalize.NameTokens(c.name)
			if len(tokens) >= 2 && tokenSetsEqual(targetTokens, tokens) {
				return c.row, true
			}
		}
	}

	// Step 3: edit-distance similarity above the context-dependent
	// threshold; the best-scoring row wins, not the first acceptable one.
	bestRow, bestScore := -1, 0.0
	for _, c := range candidates {
		score := similarity(target, c.name)
		if score >= l.threshold(target, c.name) && score > bestScore {
			bestRow, bestScore = c.row, score
		}
	}
	if bestRow >= 0 {
		return bestRow, true
	}

	// Step 4: whole-row text scan, a last resort for names misplaced
	// outside the expected column. Single-token targets are excluded: a
	// lone short token appears in too many unrelated rows.
	if len(targetTokens) >= 2 {
		for i, row := range snap.Values {
			var cells []string
			for _, cell := range row {
				cells = append(cells, CellString(cell))
			}
			rowText := " " + normalize.Name(strings.Join(cells, " ")) + " "
			if strings.Contains(rowText, " "+target+" ") {
				return i, true
			}
		}
	}

	return 0, false
}

// LinkAll matches every record and returns row assignments keyed by record
// name plus the accumulated not-found list. A missing match never aborts
// the pass.
func (l *Linker) LinkAll(records []*sheet.PersonRecord, snap *Snapshot, nameColumnIndex int) (map[string]int, []string) {
	assignments := make(map[string]int, len(records))
	var notFound []string
	for _, rec := range records {
		if row, ok := l.FindRow(rec.Name, snap, nameColumnIndex); ok {
			assignments[rec.Name] = row + snap.RowOffset
		} else {
			notFound = append(notFound, rec.Name)
		}
	}
	return assignments, notFound
}

// rowName builds the comparable name for a row: the primary cell's text,
// combined with an immediately adjacent cell when that neighbor looks
// name-like and is not already contained in the primary text. This handles
// names split across merged or adjacent columns.
func (l *Linker) rowName(row []interface{}, nameColumnIndex int) string {
	if nameColumnIndex < 0 || nameColumnIndex >= len(row) {
		return ""
	}
	primary := strings.TrimSpace(CellString(row[nameColumnIndex]))

	combined := primary
	for _, adjacent := range []int{nameColumnIndex - 1, nameColumnIndex + 1} {
		if adjacent < 0 || adjacent >= len(row) {
			continue
		}
		neighbor := strings.TrimSpace(CellString(row[adjacent]))
		if neighbor == "" || !normalize.LooksLikeName(neighbor) {
			continue
		}
		if primary != "" && strings.Contains(normalize.Name(primary), normalize.Name(neighbor)) {
			continue
		}
		if adjacent < nameColumnIndex {
			combined = neighbor + " " + combined
		} else {
			combined = combined + " " + neighbor
		}
	}
	return normalize.Name(combined)
}

// threshold picks the similarity threshold for a target/candidate pair.
func (l *Linker) threshold(target, candidate string) float64 {
	if len([]rune(target)) <= l.ShortNameLength || len([]rune(candidate)) <= l.ShortNameLength {
		return l.ShortNameSimilarity
	}
	if len(strings.Fields(target)) == len(strings.Fields(candidate)) {
		return l.RelaxedSimilarity
	}
	return l.Similarity
}

// similarity is (maxLen - editDistance) / maxLen over the two strings.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}
	return float64(maxLen-levenshtein(ra, rb)) / float64(maxLen)
}

// levenshtein computes the edit distance with a rolling two-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func tokenSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
