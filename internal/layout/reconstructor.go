// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package layout recovers row/column table structure from recognized text
// fragments using only bounding-box geometry and header keyword matches.
package layout

import (
	"errors"
	"math"
	"sort"
	"unicode"

	"gradescan/internal/recognition"
	"gradescan/internal/sheet"
)

// ErrNoStructure signals that no header row was found within the scan
// window. The caller recovers by falling back to a non-geometric strategy.
var ErrNoStructure = errors.New("no table structure found")

// Defaults, tunable through config.
const (
	DefaultRowTolerance   = 20.0
	DefaultHeaderScanRows = 12
	minHeaderMatches      = 2
)

// Column is one detected header cell with the horizontal span that serves as
// its catchment region for data rows.
type Column struct {
	Field  sheet.FieldType
	Kind   sheet.ScoreKind
	Header string
	XMin   float64
	XMax   float64
	YLevel float64
}

// Table is the reconstructed structure: the header columns and the data rows
// strictly below the header's vertical level.
type Table struct {
	HeaderRowIndex int
	Columns        []Column
	DataRows       [][]recognition.TextFragment
	RightToLeft    bool
}

// Reconstructor clusters fragments into rows and columns.
type Reconstructor struct {
	RowTolerance   float64
	HeaderScanRows int
}

// NewReconstructor returns a reconstructor with the default tolerances.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		RowTolerance:   DefaultRowTolerance,
		HeaderScanRows: DefaultHeaderScanRows,
	}
}

// Reconstruct recovers the table structure from a fragment list. It returns
// ErrNoStructure when no row within the scan window carries at least two
// recognized header keywords.
func (rc *Reconstructor) Reconstruct(fragments []recognition.TextFragment) (*Table, error) {
	if len(fragments) == 0 {
		return nil, ErrNoStructure
	}

	rtl := isRightToLeft(fragments)
	rows := rc.clusterRows(fragments, rtl)

	headerIdx, columns := rc.findHeader(rows)
	if headerIdx < 0 {
		return nil, ErrNoStructure
	}

	headerY := 0.0
	for _, c := range columns {
		headerY = math.Max(headerY, c.YLevel)
	}

	table := &Table{
		HeaderRowIndex: headerIdx,
		Columns:        columns,
		RightToLeft:    rtl,
	}
	for i := headerIdx + 1; i < len(rows); i++ {
		if rowTop(rows[i]) <= headerY {
			continue
		}
		table.DataRows = append(table.DataRows, rows[i])
	}
	return table, nil
}

// clusterRows sorts fragments by their topmost vertical coordinate and
// groups them with a running row anchor: a fragment joins the current row
// when its vertical gap from the anchor stays within tolerance.
func (rc *Reconstructor) clusterRows(fragments []recognition.TextFragment, rtl bool) [][]recognition.TextFragment {
	tolerance := rc.RowTolerance
	if tolerance <= 0 {
		tolerance = DefaultRowTolerance
	}

	sorted := make([]recognition.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Top() < sorted[j].Top()
	})

	var rows [][]recognition.TextFragment
	current := []recognition.TextFragment{sorted[0]}
	anchor := sorted[0].Top()
	for _, f := range sorted[1:] {
		if f.Top()-anchor <= tolerance {
			current = append(current, f)
			continue
		}
		rows = append(rows, sortRow(current, rtl))
		current = []recognition.TextFragment{f}
		anchor = f.Top()
	}
	rows = append(rows, sortRow(current, rtl))
	return rows
}

func sortRow(row []recognition.TextFragment, rtl bool) []recognition.TextFragment {
	sort.SliceStable(row, func(i, j int) bool {
		if rtl {
			return row[i].CenterX() > row[j].CenterX()
		}
		return row[i].CenterX() < row[j].CenterX()
	})
	return row
}

// findHeader scans the first HeaderScanRows rows for one containing at least
// two recognized header keywords; the first such row wins.
func (rc *Reconstructor) findHeader(rows [][]recognition.TextFragment) (int, []Column) {
	window := rc.HeaderScanRows
	if window <= 0 {
		window = DefaultHeaderScanRows
	}
	if window > len(rows) {
		window = len(rows)
	}

	for i := 0; i < window; i++ {
		var columns []Column
		matches := 0
		for _, f := range rows[i] {
			field, kind, ok := sheet.MatchHeaderField(f.Text)
			col := Column{
				Field:  field,
				Kind:   kind,
				Header: f.Text,
				XMin:   f.Left(),
				XMax:   f.Right(),
				YLevel: f.Bottom(),
			}
			if ok {
				matches++
			}
			columns = append(columns, col)
		}
		if matches >= minHeaderMatches {
			return i, columns
		}
	}
	return -1, nil
}

// AssignColumn returns the index of the column whose span contains the
// fragment's horizontal center. Overlapping spans (merged header cells) are
// resolved in favor of the nearest span center. A fragment whose center
// falls in no span yields -1 and is ignored for structured parsing.
func (t *Table) AssignColumn(f *recognition.TextFragment) int {
	center := f.CenterX()
	best := -1
	bestDist := math.MaxFloat64
	for i, col := range t.Columns {
		if center < col.XMin || center > col.XMax {
			continue
		}
		dist := math.Abs(center - (col.XMin+col.XMax)/2)
		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// ColumnByField returns the first column of the given field type.
func (t *Table) ColumnByField(field sheet.FieldType) (int, bool) {
	for i, col := range t.Columns {
		if col.Field == field {
			return i, true
		}
	}
	return -1, false
}

// ScoreColumns returns the indices of score columns keyed by kind.
func (t *Table) ScoreColumns() map[sheet.ScoreKind]int {
	out := make(map[sheet.ScoreKind]int)
	for i, col := range t.Columns {
		if col.Field == sheet.FieldScore {
			if _, seen := out[col.Kind]; !seen {
				out[col.Kind] = i
			}
		}
	}
	return out
}

func rowTop(row []recognition.TextFragment) float64 {
	top := math.MaxFloat64
	for i := range row {
		top = math.Min(top, row[i].Top())
	}
	return top
}

// isRightToLeft reports whether the sheet is predominantly written in a
// right-to-left script, which flips the in-row ordering.
func isRightToLeft(fragments []recognition.TextFragment) bool {
	rtl, ltr := 0, 0
	for _, f := range fragments {
		for _, r := range f.Text {
			switch {
			case unicode.In(r, unicode.Arabic, unicode.Hebrew):
				rtl++
			case unicode.In(r, unicode.Latin):
				ltr++
			}
		}
	}
	return rtl > ltr
}
